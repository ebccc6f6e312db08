package repos

import (
	"context"
	"database/sql"
	"errors"

	"fintrack/internal/domain"

	"github.com/jmoiron/sqlx"
)

// CategoryRepo stores categories; every method is scoped to an owner id.
type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryColumns = `id,name,color,user_id`

func (r *CategoryRepo) List(ctx context.Context, ownerID int64) ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
		SELECT `+categoryColumns+`
		FROM categories
		WHERE user_id=?
		ORDER BY name`), ownerID)
	return out, err
}

func (r *CategoryRepo) Get(ctx context.Context, ownerID, id int64) (domain.Category, error) {
	return r.one(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id=? AND user_id=?`, id, ownerID)
}

func (r *CategoryRepo) Create(ctx context.Context, ownerID int64, in domain.CategoryInput) (domain.Category, error) {
	return r.one(ctx, `
		INSERT INTO categories(name,color,user_id)
		VALUES(?,?,?)
		RETURNING `+categoryColumns, in.Name, in.Color, ownerID)
}

func (r *CategoryRepo) Update(ctx context.Context, ownerID, id int64, in domain.CategoryInput) (domain.Category, error) {
	return r.one(ctx, `
		UPDATE categories SET name=?, color=?
		WHERE id=? AND user_id=?
		RETURNING `+categoryColumns, in.Name, in.Color, id, ownerID)
}

func (r *CategoryRepo) Delete(ctx context.Context, ownerID, id int64) error {
	return execOwned(ctx, r.db, `DELETE FROM categories WHERE id=? AND user_id=?`, id, ownerID)
}

func (r *CategoryRepo) one(ctx context.Context, query string, args ...any) (domain.Category, error) {
	var c domain.Category
	if err := r.db.GetContext(ctx, &c, r.db.Rebind(query), args...); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return domain.Category{}, ErrNotFound
		case isUniqueViolation(err):
			return domain.Category{}, ErrAlreadyExists
		}
		return domain.Category{}, err
	}
	return c, nil
}

// execOwned runs a single owner-filtered mutation and maps zero affected rows to ErrNotFound.
func execOwned(ctx context.Context, db *sqlx.DB, query string, args ...any) error {
	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
