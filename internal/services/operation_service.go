package services

import (
	"context"
	"math"

	"fintrack/internal/domain"
	"fintrack/internal/repos"
	"fintrack/internal/validate"
)

type OperationService struct {
	ops        *repos.OperationRepo
	scoped     *Scoped[domain.Operation, domain.OperationInput]
	categories *Scoped[domain.Category, domain.CategoryInput]
}

func NewOperationService(ops *repos.OperationRepo, cats *repos.CategoryRepo) *OperationService {
	return &OperationService{
		ops:        ops,
		scoped:     NewScoped[domain.Operation, domain.OperationInput](ops, "operation"),
		categories: NewScoped[domain.Category, domain.CategoryInput](cats, "category"),
	}
}

// List returns p's operations ordered by date; empty bounds are open.
func (s *OperationService) List(ctx context.Context, p domain.Principal, start, end string) ([]domain.Operation, error) {
	rng, err := dateRange(start, end)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(p); err != nil {
		return nil, err
	}
	return s.ops.ListRange(ctx, p.UserID, rng)
}

func (s *OperationService) Get(ctx context.Context, p domain.Principal, id int64) (domain.Operation, error) {
	return s.scoped.Get(ctx, p, id)
}

func (s *OperationService) Create(ctx context.Context, p domain.Principal, in domain.OperationInput) (domain.Operation, error) {
	in, err := s.clean(ctx, p, in)
	if err != nil {
		return domain.Operation{}, err
	}
	return s.scoped.Create(ctx, p, in)
}

func (s *OperationService) Update(ctx context.Context, p domain.Principal, id int64, in domain.OperationInput) (domain.Operation, error) {
	if _, err := s.scoped.Get(ctx, p, id); err != nil {
		return domain.Operation{}, err
	}
	in, err := s.clean(ctx, p, in)
	if err != nil {
		return domain.Operation{}, err
	}
	return s.scoped.Update(ctx, p, id, in)
}

func (s *OperationService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	return s.scoped.Delete(ctx, p, id)
}

// Balance sums p's operations in the inclusive range, rounded to cents.
func (s *OperationService) Balance(ctx context.Context, p domain.Principal, start, end string) (domain.Balance, error) {
	rng, err := dateRange(start, end)
	if err != nil {
		return domain.Balance{}, err
	}
	if err := requireOwner(p); err != nil {
		return domain.Balance{}, err
	}
	total, err := s.ops.Sum(ctx, p.UserID, rng)
	if err != nil {
		return domain.Balance{}, err
	}
	return domain.Balance{Balance: math.Round(total*100) / 100, Currency: p.Currency}, nil
}

func (s *OperationService) clean(ctx context.Context, p domain.Principal, in domain.OperationInput) (domain.OperationInput, error) {
	date, ok := validate.Date(in.Date)
	if !ok {
		return in, fail(ErrValidation, "date must be YYYY-MM-DD")
	}
	if in.Amount == nil {
		return in, fail(ErrValidation, "amount is required")
	}
	if !validate.Amount(*in.Amount) {
		return in, fail(ErrValidation, "invalid amount")
	}
	comment, ok := validate.Comment(in.Comment)
	if !ok {
		return in, fail(ErrValidation, "comment must be at most 255 characters")
	}
	if in.CategoryID != nil {
		if _, err := s.categories.Get(ctx, p, *in.CategoryID); err != nil {
			return in, err
		}
	}
	return domain.OperationInput{Date: date, Amount: in.Amount, Comment: comment, CategoryID: in.CategoryID}, nil
}

func dateRange(start, end string) (domain.DateRange, error) {
	s, ok := validate.OptionalDate(start)
	if !ok {
		return domain.DateRange{}, fail(ErrValidation, "start_date must be YYYY-MM-DD")
	}
	e, ok := validate.OptionalDate(end)
	if !ok {
		return domain.DateRange{}, fail(ErrValidation, "end_date must be YYYY-MM-DD")
	}
	return domain.DateRange{Start: s, End: e}, nil
}
