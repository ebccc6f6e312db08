package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"fintrack/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OperationRepo struct{ db *sqlx.DB }

func NewOperationRepo(db *sqlx.DB) *OperationRepo { return &OperationRepo{db: db} }

// The category join repeats the owner filter so a foreign category never leaks into a response.
const operationSelect = `
	SELECT o.id, o.date, o.amount, o.comment, o.category_id, o.user_id,
	       c.id AS cat_id, c.name AS cat_name, c.color AS cat_color
	FROM operations o
	LEFT JOIN categories c ON c.id = o.category_id AND c.user_id = o.user_id`

type operationRow struct {
	domain.Operation
	CatID    sql.NullInt64  `db:"cat_id"`
	CatName  sql.NullString `db:"cat_name"`
	CatColor sql.NullString `db:"cat_color"`
}

func (row operationRow) toDomain() domain.Operation {
	op := row.Operation
	if row.CatID.Valid {
		cat := &domain.Category{ID: row.CatID.Int64, Name: row.CatName.String, UserID: op.UserID}
		if row.CatColor.Valid {
			color := row.CatColor.String
			cat.Color = &color
		}
		op.Category = cat
	}
	return op
}

func (r *OperationRepo) List(ctx context.Context, ownerID int64) ([]domain.Operation, error) {
	return r.ListRange(ctx, ownerID, domain.DateRange{})
}

// ListRange returns the owner's operations with date inside rng (bounds inclusive).
func (r *OperationRepo) ListRange(ctx context.Context, ownerID int64, rng domain.DateRange) ([]domain.Operation, error) {
	where, args := rangeFilter("o.", ownerID, rng)
	var rows []operationRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(operationSelect+`
		WHERE `+where+`
		ORDER BY o.date, o.id`), args...)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Operation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Sum totals amount over the owner's operations inside rng. No rows sums to zero.
func (r *OperationRepo) Sum(ctx context.Context, ownerID int64, rng domain.DateRange) (float64, error) {
	where, args := rangeFilter("", ownerID, rng)
	var total float64
	err := r.db.GetContext(ctx, &total, r.db.Rebind(`
		SELECT COALESCE(SUM(amount), 0.0) FROM operations WHERE `+where), args...)
	return total, err
}

func (r *OperationRepo) Get(ctx context.Context, ownerID, id int64) (domain.Operation, error) {
	var row operationRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(operationSelect+`
		WHERE o.id=? AND o.user_id=?`), id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Operation{}, ErrNotFound
		}
		return domain.Operation{}, err
	}
	return row.toDomain(), nil
}

// Create and Update write in one statement, then read the row back with its category.
func (r *OperationRepo) Create(ctx context.Context, ownerID int64, in domain.OperationInput) (domain.Operation, error) {
	id, err := r.returningID(ctx, `
		INSERT INTO operations(date,amount,comment,category_id,user_id)
		VALUES(?,?,?,?,?)
		RETURNING id`, in.Date, in.Amount, in.Comment, in.CategoryID, ownerID)
	if err != nil {
		return domain.Operation{}, err
	}
	return r.Get(ctx, ownerID, id)
}

func (r *OperationRepo) Update(ctx context.Context, ownerID, id int64, in domain.OperationInput) (domain.Operation, error) {
	id, err := r.returningID(ctx, `
		UPDATE operations SET date=?, amount=?, comment=?, category_id=?
		WHERE id=? AND user_id=?
		RETURNING id`, in.Date, in.Amount, in.Comment, in.CategoryID, id, ownerID)
	if err != nil {
		return domain.Operation{}, err
	}
	return r.Get(ctx, ownerID, id)
}

func (r *OperationRepo) Delete(ctx context.Context, ownerID, id int64) error {
	return execOwned(ctx, r.db, `DELETE FROM operations WHERE id=? AND user_id=?`, id, ownerID)
}

func (r *OperationRepo) returningID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := r.db.GetContext(ctx, &id, r.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// rangeFilter builds the owner and date predicates; prefix qualifies columns in joins.
func rangeFilter(prefix string, ownerID int64, rng domain.DateRange) (string, []any) {
	clauses := []string{prefix + "user_id=?"}
	args := []any{ownerID}
	if rng.Start != "" {
		clauses = append(clauses, prefix+"date >= ?")
		args = append(args, rng.Start)
	}
	if rng.End != "" {
		clauses = append(clauses, prefix+"date <= ?")
		args = append(args, rng.End)
	}
	return strings.Join(clauses, " AND "), args
}
