package services

import (
	"context"

	"fintrack/internal/domain"
	"fintrack/internal/repos"
	"fintrack/internal/validate"
)

type CategoryService struct {
	scoped *Scoped[domain.Category, domain.CategoryInput]
}

func NewCategoryService(r *repos.CategoryRepo) *CategoryService {
	return &CategoryService{scoped: NewScoped[domain.Category, domain.CategoryInput](r, "category")}
}

func (s *CategoryService) List(ctx context.Context, p domain.Principal) ([]domain.Category, error) {
	return s.scoped.List(ctx, p)
}

func (s *CategoryService) Get(ctx context.Context, p domain.Principal, id int64) (domain.Category, error) {
	return s.scoped.Get(ctx, p, id)
}

func (s *CategoryService) Create(ctx context.Context, p domain.Principal, in domain.CategoryInput) (domain.Category, error) {
	in, err := cleanCategory(in)
	if err != nil {
		return domain.Category{}, err
	}
	return s.scoped.Create(ctx, p, in)
}

func (s *CategoryService) Update(ctx context.Context, p domain.Principal, id int64, in domain.CategoryInput) (domain.Category, error) {
	in, err := cleanCategory(in)
	if err != nil {
		return domain.Category{}, err
	}
	return s.scoped.Update(ctx, p, id, in)
}

func (s *CategoryService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	return s.scoped.Delete(ctx, p, id)
}

func cleanCategory(in domain.CategoryInput) (domain.CategoryInput, error) {
	name, ok := validate.Name(in.Name)
	if !ok {
		return in, fail(ErrValidation, "name must be 1 to 50 characters")
	}
	color, ok := validate.Color(in.Color)
	if !ok {
		return in, fail(ErrValidation, "invalid color")
	}
	return domain.CategoryInput{Name: name, Color: color}, nil
}
