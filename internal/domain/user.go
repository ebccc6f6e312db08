package domain

import "time"

type User struct {
	ID       int64  `db:"id" json:"id"`
	Email    string `db:"email" json:"email"`
	Hash     string `db:"password_hash" json:"-"`
	Currency string `db:"currency" json:"currency"`
	Role     Role   `db:"role" json:"role"`
}

// Principal is the identity resolved from a valid, unrevoked bearer token.
type Principal struct {
	UserID         int64     `json:"id"`
	Email          string    `json:"email"`
	Currency       string    `json:"currency"`
	Role           Role      `json:"role"`
	TokenExpiresAt time.Time `json:"-"`
}

func PrincipalFor(u *User, tokenExpiresAt time.Time) Principal {
	return Principal{
		UserID:         u.ID,
		Email:          u.Email,
		Currency:       u.Currency,
		Role:           NormalizeRole(string(u.Role)),
		TokenExpiresAt: tokenExpiresAt,
	}
}
