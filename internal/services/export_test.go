package services

// DummyHash exposes the hash unknown-email logins are compared against.
func DummyHash(s *AuthService) []byte { return s.dummy }
