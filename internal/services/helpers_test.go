package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/auth"
	"fintrack/internal/domain"
	"fintrack/internal/events"
	"fintrack/internal/repos"
	"fintrack/internal/services"
)

const testSecret = "test-secret-key-0123456789"

func money(v float64) *float64 { return &v }

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	db     *sqlx.DB
	users  *repos.UserRepo
	tokens *auth.TokenManager
	auth   *services.AuthService
	cats   *services.CategoryService
	ops    *services.OperationService
	admin  *services.AdminService
	pub    *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	pub := &recorder{}
	users := repos.NewUserRepo(db)
	tokens := auth.NewTokenManager(testSecret, "fintrack", time.Hour)
	as := services.NewAuthService(users, tokens, repos.NewRevokedTokenRepo(db), pub)
	as.HashCost = bcrypt.MinCost
	cr := repos.NewCategoryRepo(db)
	return &fixture{
		db:     db,
		users:  users,
		tokens: tokens,
		auth:   as,
		cats:   services.NewCategoryService(cr),
		ops:    services.NewOperationService(repos.NewOperationRepo(db), cr),
		admin:  services.NewAdminService(users, pub),
		pub:    pub,
	}
}

// signIn registers email and returns the authenticated principal and its token.
func (f *fixture) signIn(t *testing.T, email string) (domain.Principal, string) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.auth.Register(ctx, email, "test123", "$"); err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	sess, err := f.auth.Login(ctx, email, "test123")
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	p, err := f.auth.Authenticate(ctx, sess.AccessToken)
	if err != nil {
		t.Fatalf("authenticate %s: %v", email, err)
	}
	return p, sess.AccessToken
}
