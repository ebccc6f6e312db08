package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/auth"
	"fintrack/internal/domain"
	"fintrack/internal/events"
	applog "fintrack/internal/log"
	"fintrack/internal/repos"
	"fintrack/internal/validate"
)

// RevocationLedger records logged-out tokens until they would have expired anyway.
type RevocationLedger interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	Prune(ctx context.Context, now time.Time) (int64, error)
}

type AuthService struct {
	Users    *repos.UserRepo
	Tokens   *auth.TokenManager
	Ledger   RevocationLedger
	Events   events.Publisher
	HashCost int

	dummyOnce sync.Once
	dummy     []byte
}

func NewAuthService(users *repos.UserRepo, tokens *auth.TokenManager, ledger RevocationLedger, pub events.Publisher) *AuthService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &AuthService{Users: users, Tokens: tokens, Ledger: ledger, Events: pub, HashCost: bcrypt.DefaultCost}
}

// Session is what a successful login hands back to the client.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"-"`
	UserID      int64     `json:"-"`
}

func (s *AuthService) Register(ctx context.Context, email, password, currency string) (*domain.User, error) {
	email, ok := validate.Email(email)
	if !ok {
		return nil, fail(ErrValidation, "invalid email")
	}
	if !validate.Password(password) {
		return nil, fail(ErrValidation, "password must be 6 to 72 characters")
	}
	currency, ok = validate.Currency(currency)
	if !ok {
		return nil, fail(ErrValidation, "invalid currency")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return nil, err
	}
	u, err := s.Users.Create(ctx, domain.User{
		Email:    email,
		Hash:     string(hash),
		Currency: currency,
		Role:     domain.RoleUser,
	})
	if errors.Is(err, repos.ErrAlreadyExists) {
		return nil, fail(ErrConflict, "email already registered")
	}
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.UserRegistered, u.ID))
	return u, nil
}

func (s *AuthService) cost() int {
	if s.HashCost == 0 {
		return bcrypt.DefaultCost
	}
	return s.HashCost
}

func (s *AuthService) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("fintrack-no-such-user"), s.cost())
		if err != nil {
			panic(err)
		}
		s.dummy = h
	})
	return s.dummy
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email, _ = validate.Email(email)
	u, err := s.Users.ByEmail(ctx, email)
	if errors.Is(err, repos.ErrNotFound) {
		// Unknown emails pay the same bcrypt price as wrong passwords.
		_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password))
		return nil, fail(ErrUnauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, fail(ErrUnauthorized, "invalid credentials")
	}
	token, exp, err := s.Tokens.Issue(u.ID, domain.NormalizeRole(string(u.Role)))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.UserLoggedIn, u.ID))
	return &Session{AccessToken: token, TokenType: "bearer", ExpiresAt: exp, UserID: u.ID}, nil
}

// Authenticate resolves a bearer token to a principal. Checks run in order:
// signature and expiry, revocation, then the user row.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	claims, err := s.Tokens.Decode(token)
	if err != nil {
		return domain.Principal{}, fail(ErrUnauthorized, "could not validate credentials")
	}
	revoked, err := s.Ledger.IsRevoked(ctx, token)
	if err != nil {
		return domain.Principal{}, err
	}
	if revoked {
		return domain.Principal{}, fail(ErrUnauthorized, "token has been revoked")
	}
	u, err := s.Users.ByID(ctx, claims.UserID)
	if errors.Is(err, repos.ErrNotFound) {
		return domain.Principal{}, fail(ErrUnauthorized, "could not validate credentials")
	}
	if err != nil {
		return domain.Principal{}, err
	}
	return domain.PrincipalFor(u, claims.Expiry()), nil
}

// Authorize passes p through when its role ranks at least as high as required.
func Authorize(p domain.Principal, required domain.Role) (domain.Principal, error) {
	if !p.Role.AtLeast(required) {
		return p, fail(ErrForbidden, "not enough permissions")
	}
	return p, nil
}

// Logout revokes the token p was authenticated with.
func (s *AuthService) Logout(ctx context.Context, p domain.Principal, token string) error {
	exp := p.TokenExpiresAt
	if exp.IsZero() {
		exp = time.Now().Add(s.Tokens.TTL())
	}
	if err := s.Ledger.Revoke(ctx, token, exp); err != nil {
		return err
	}
	s.publish(ctx, events.New(events.UserLoggedOut, p.UserID))
	return nil
}

// PruneRevoked drops ledger entries for tokens that have already expired.
func (s *AuthService) PruneRevoked(ctx context.Context, now time.Time) (int64, error) {
	return s.Ledger.Prune(ctx, now)
}

func (s *AuthService) publish(ctx context.Context, e events.Event) {
	publish(ctx, s.Events, e)
}

func publish(ctx context.Context, pub events.Publisher, e events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, e); err != nil {
		applog.Error(nil, "events.publish.fail", err, map[string]any{"type": e.Type, "user_id": e.UserID})
	}
}
