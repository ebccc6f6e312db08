package repos

import (
	"context"
	"database/sql"
	"errors"

	"fintrack/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id,email,password_hash,currency,role`

// Create inserts u and returns the stored row. A taken email yields ErrAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	var out domain.User
	err := r.DB.GetContext(ctx, &out, r.DB.Rebind(`
		INSERT INTO users(email,password_hash,currency,role)
		VALUES(?,?,?,?)
		RETURNING `+userColumns), u.Email, u.Hash, u.Currency, u.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return &out, nil
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email=?`, email)
}

func (r *UserRepo) ByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, id)
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	err := r.DB.SelectContext(ctx, &out, `SELECT `+userColumns+` FROM users ORDER BY id`)
	return out, err
}

// UpdateRole sets the role of user id and returns the updated row.
func (r *UserRepo) UpdateRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error) {
	return r.getOne(ctx, `UPDATE users SET role=? WHERE id=? RETURNING `+userColumns, role, id)
}

func (r *UserRepo) getOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User
	if err := r.DB.GetContext(ctx, &u, r.DB.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
