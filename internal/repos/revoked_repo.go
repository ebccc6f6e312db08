package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// RevokedTokenRepo is the SQL-backed revocation ledger.
type RevokedTokenRepo struct{ db *sqlx.DB }

func NewRevokedTokenRepo(db *sqlx.DB) *RevokedTokenRepo { return &RevokedTokenRepo{db: db} }

// Revoke records token; revoking an already revoked token is a no-op.
func (r *RevokedTokenRepo) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO revoked_tokens(token,expires_at,created_at)
		VALUES(?,?,?)
		ON CONFLICT(token) DO NOTHING`), token, expiresAt.Unix(), time.Now().Unix())
	return err
}

func (r *RevokedTokenRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM revoked_tokens WHERE token=?`), token)
	return n > 0, err
}

// Prune drops entries whose token expired at or before now.
func (r *RevokedTokenRepo) Prune(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM revoked_tokens WHERE expires_at <= ?`), now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *RevokedTokenRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM revoked_tokens`)
	return n, err
}
