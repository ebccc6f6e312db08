package services

import (
	"context"
	"errors"

	"fintrack/internal/domain"
	"fintrack/internal/repos"
)

// OwnedStore persists rows that belong to exactly one user. Every method
// filters by ownerID; a row owned by someone else is indistinguishable from
// a missing one.
type OwnedStore[T, In any] interface {
	List(ctx context.Context, ownerID int64) ([]T, error)
	Get(ctx context.Context, ownerID, id int64) (T, error)
	Create(ctx context.Context, ownerID int64, in In) (T, error)
	Update(ctx context.Context, ownerID, id int64, in In) (T, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// Scoped binds every store call to the requesting principal.
type Scoped[T, In any] struct {
	store OwnedStore[T, In]
	noun  string
}

func NewScoped[T, In any](store OwnedStore[T, In], noun string) *Scoped[T, In] {
	return &Scoped[T, In]{store: store, noun: noun}
}

func (s *Scoped[T, In]) List(ctx context.Context, p domain.Principal) ([]T, error) {
	if err := requireOwner(p); err != nil {
		return nil, err
	}
	items, err := s.store.List(ctx, p.UserID)
	if err != nil {
		return nil, s.translate(err)
	}
	return items, nil
}

func (s *Scoped[T, In]) Get(ctx context.Context, p domain.Principal, id int64) (T, error) {
	var zero T
	if err := requireOwner(p); err != nil {
		return zero, err
	}
	v, err := s.store.Get(ctx, p.UserID, id)
	if err != nil {
		return zero, s.translate(err)
	}
	return v, nil
}

func (s *Scoped[T, In]) Create(ctx context.Context, p domain.Principal, in In) (T, error) {
	var zero T
	if err := requireOwner(p); err != nil {
		return zero, err
	}
	v, err := s.store.Create(ctx, p.UserID, in)
	if err != nil {
		return zero, s.translate(err)
	}
	return v, nil
}

func (s *Scoped[T, In]) Update(ctx context.Context, p domain.Principal, id int64, in In) (T, error) {
	var zero T
	if err := requireOwner(p); err != nil {
		return zero, err
	}
	v, err := s.store.Update(ctx, p.UserID, id, in)
	if err != nil {
		return zero, s.translate(err)
	}
	return v, nil
}

func (s *Scoped[T, In]) Delete(ctx context.Context, p domain.Principal, id int64) error {
	if err := requireOwner(p); err != nil {
		return err
	}
	return s.translate(s.store.Delete(ctx, p.UserID, id))
}

func (s *Scoped[T, In]) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repos.ErrNotFound):
		return fail(ErrNotFound, "%s not found", s.noun)
	case errors.Is(err, repos.ErrAlreadyExists):
		return fail(ErrConflict, "%s with this name already exists", s.noun)
	}
	return err
}

func requireOwner(p domain.Principal) error {
	if p.UserID <= 0 {
		return fail(ErrUnauthorized, "could not validate credentials")
	}
	return nil
}
