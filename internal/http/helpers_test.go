package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/config"
	"fintrack/internal/domain"
	server "fintrack/internal/http"
	"fintrack/internal/http/handlers"
	applog "fintrack/internal/log"
	"fintrack/internal/repos"
)

type testEnv struct {
	app *fiber.App
	db  *sqlx.DB
}

func testConfig() config.Config {
	return config.Config{
		Port:            "8080",
		DBDriver:        "sqlite",
		DBDSN:           ":memory:",
		JWTSecret:       "test-secret-key-0123456789",
		JWTIssuer:       "fintrack",
		TokenTTL:        time.Hour,
		BcryptCost:      bcrypt.MinCost,
		RevocationStore: "sql",
		CORSOrigins:     []string{"*"},
		LoginRateMax:    100,
		LoginRateWindow: time.Minute,
		BodyLimit:       1 << 20,
	}
}

func newEnv(t *testing.T, tweak ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := testConfig()
	for _, f := range tweak {
		f(&cfg)
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	deps := handlers.NewDeps(db, cfg, nil, nil)
	return &testEnv{app: server.New(cfg, deps, io.Discard), db: db}
}

// do sends body as JSON (when non-nil) with an optional bearer token.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	out, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, body []byte, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s: status %d, want %d, body=%s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, body)
	}
}

// signUp registers and logs in email, returning the access token.
func (e *testEnv) signUp(t *testing.T, email string) string {
	t.Helper()
	resp, body := e.do(t, "POST", "/auth/register", "", map[string]string{"email": email, "password": "test123"})
	expectStatus(t, resp, body, http.StatusOK)
	return e.login(t, email)
}

func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	resp, body := e.do(t, "POST", "/auth/login", "", map[string]string{"email": email, "password": "test123"})
	expectStatus(t, resp, body, http.StatusOK)
	tok := decode[map[string]string](t, body)
	if tok["token_type"] != "bearer" || tok["access_token"] == "" {
		t.Fatalf("bad login body: %s", body)
	}
	return tok["access_token"]
}

func (e *testEnv) promote(t *testing.T, email string) {
	t.Helper()
	users := repos.NewUserRepo(e.db)
	u, err := users.ByEmail(t.Context(), email)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := users.UpdateRole(t.Context(), u.ID, domain.RoleAdmin); err != nil {
		t.Fatal(err)
	}
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID int64          `json:"user_id"`
	ReqID  string         `json:"req_id"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// captureLogs points the application logger at a buffer while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	w := &lockedWriter{}
	applog.Setup(w, "debug")
	defer applog.Setup(io.Discard, "info")

	fn()

	w.mu.Lock()
	defer w.mu.Unlock()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(w.buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
