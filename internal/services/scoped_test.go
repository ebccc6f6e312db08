package services_test

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/domain"
	"fintrack/internal/services"
)

func TestCategoriesAreOwnerScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.signIn(t, "alice@example.com")
	bob, _ := f.signIn(t, "bob@example.com")

	food, err := f.cats.Create(ctx, alice, domain.CategoryInput{Name: " Food "})
	if err != nil {
		t.Fatal(err)
	}
	if food.Name != "Food" || food.UserID != alice.UserID {
		t.Fatalf("unexpected category: %+v", food)
	}

	if _, err := f.cats.Get(ctx, bob, food.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("bob get: %v", err)
	}
	if _, err := f.cats.Update(ctx, bob, food.ID, domain.CategoryInput{Name: "Mine"}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("bob update: %v", err)
	}
	if err := f.cats.Delete(ctx, bob, food.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("bob delete: %v", err)
	}
	list, err := f.cats.List(ctx, bob)
	if err != nil || len(list) != 0 {
		t.Fatalf("bob list = %v, %v", list, err)
	}

	// alice's row is untouched
	got, err := f.cats.Get(ctx, alice, food.ID)
	if err != nil || got.Name != "Food" {
		t.Fatalf("alice get = %+v, %v", got, err)
	}
	if err := f.cats.Delete(ctx, alice, food.ID); err != nil {
		t.Fatal(err)
	}
	if err := f.cats.Delete(ctx, alice, food.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestCategoryDuplicateName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.signIn(t, "alice@example.com")
	bob, _ := f.signIn(t, "bob@example.com")

	if _, err := f.cats.Create(ctx, alice, domain.CategoryInput{Name: "Food"}); err != nil {
		t.Fatal(err)
	}
	_, err := f.cats.Create(ctx, alice, domain.CategoryInput{Name: "Food"})
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("duplicate create: %v", err)
	}
	if err.Error() != "category with this name already exists" {
		t.Fatalf("message = %q", err)
	}
	if _, err := f.cats.Create(ctx, bob, domain.CategoryInput{Name: "Food"}); err != nil {
		t.Fatalf("other user may reuse a name: %v", err)
	}

	rent, err := f.cats.Create(ctx, alice, domain.CategoryInput{Name: "Rent"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.cats.Update(ctx, alice, rent.ID, domain.CategoryInput{Name: "Food"}); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("rename onto existing: %v", err)
	}
}

func TestScopedRequiresPrincipal(t *testing.T) {
	f := newFixture(t)
	if _, err := f.cats.List(context.Background(), domain.Principal{}); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("zero principal: %v", err)
	}
}

func TestCategoryValidation(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.signIn(t, "alice@example.com")
	bad := "no spaces allowed"
	for _, in := range []domain.CategoryInput{{Name: "  "}, {Name: "Ok", Color: &bad}} {
		if _, err := f.cats.Create(context.Background(), alice, in); !errors.Is(err, services.ErrValidation) {
			t.Errorf("%+v: err = %v", in, err)
		}
	}
}
