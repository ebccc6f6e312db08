package server_test

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCategoriesAreInvisibleAcrossUsers(t *testing.T) {
	env := newEnv(t)
	alice := env.signUp(t, "alice@example.com")
	bob := env.signUp(t, "bob@example.com")

	resp, body := env.do(t, "POST", "/categories", alice, map[string]any{"name": "Food", "color": "#ff0000"})
	expectStatus(t, resp, body, http.StatusOK)
	cat := decode[map[string]any](t, body)
	if _, leaked := cat["user_id"]; leaked {
		t.Fatalf("owner id exposed: %s", body)
	}
	path := fmt.Sprintf("/categories/%d", int64(cat["id"].(float64)))

	resp, body = env.do(t, "GET", path, bob, nil)
	expectStatus(t, resp, body, http.StatusNotFound)
	resp, body = env.do(t, "PUT", path, bob, map[string]any{"name": "Stolen"})
	expectStatus(t, resp, body, http.StatusNotFound)
	resp, body = env.do(t, "DELETE", path, bob, nil)
	expectStatus(t, resp, body, http.StatusNotFound)

	resp, body = env.do(t, "GET", "/categories", bob, nil)
	expectStatus(t, resp, body, http.StatusOK)
	if got := decode[[]map[string]any](t, body); len(got) != 0 {
		t.Fatalf("bob sees %s", body)
	}

	resp, body = env.do(t, "GET", path, alice, nil)
	expectStatus(t, resp, body, http.StatusOK)
	if decode[map[string]any](t, body)["name"] != "Food" {
		t.Fatalf("alice's category changed: %s", body)
	}
}

func TestDuplicateCategoryName(t *testing.T) {
	env := newEnv(t)
	alice := env.signUp(t, "alice@example.com")
	bob := env.signUp(t, "bob@example.com")

	resp, body := env.do(t, "POST", "/categories", alice, map[string]any{"name": "Food"})
	expectStatus(t, resp, body, http.StatusOK)
	resp, body = env.do(t, "POST", "/categories", alice, map[string]any{"name": "Food"})
	expectStatus(t, resp, body, http.StatusBadRequest)
	resp, body = env.do(t, "POST", "/categories", bob, map[string]any{"name": "Food"})
	expectStatus(t, resp, body, http.StatusOK)
}

func TestOperationsAndBalance(t *testing.T) {
	env := newEnv(t)
	alice := env.signUp(t, "alice@example.com")
	bob := env.signUp(t, "bob@example.com")

	resp, body := env.do(t, "POST", "/categories", bob, map[string]any{"name": "Bob only"})
	expectStatus(t, resp, body, http.StatusOK)
	bobCat := int64(decode[map[string]any](t, body)["id"].(float64))

	resp, body = env.do(t, "POST", "/operations", alice, map[string]any{"date": "2025-01-05", "amount": 10, "category_id": bobCat})
	expectStatus(t, resp, body, http.StatusNotFound)

	var firstID int64
	for i, op := range []map[string]any{
		{"date": "2025-01-01", "amount": 100.0, "comment": "salary"},
		{"date": "2025-01-15", "amount": 50.75},
		{"date": "2025-02-01", "amount": -20.0},
	} {
		resp, body = env.do(t, "POST", "/operations", alice, op)
		expectStatus(t, resp, body, http.StatusOK)
		if i == 0 {
			firstID = int64(decode[map[string]any](t, body)["id"].(float64))
		}
	}

	resp, body = env.do(t, "GET", "/operations/balance/total", alice, nil)
	expectStatus(t, resp, body, http.StatusOK)
	bal := decode[map[string]any](t, body)
	if bal["balance"] != 130.75 || bal["currency"] != "$" {
		t.Fatalf("balance = %s", body)
	}

	resp, body = env.do(t, "GET", "/operations/balance/total?start_date=2025-01-01&end_date=2025-01-31", alice, nil)
	expectStatus(t, resp, body, http.StatusOK)
	if decode[map[string]any](t, body)["balance"] != 150.75 {
		t.Fatalf("january balance = %s", body)
	}

	resp, body = env.do(t, "GET", "/operations?start_date=2025-01-15", alice, nil)
	expectStatus(t, resp, body, http.StatusOK)
	if got := decode[[]map[string]any](t, body); len(got) != 2 {
		t.Fatalf("ops since 15th = %s", body)
	}

	resp, body = env.do(t, "GET", "/operations/balance/total", bob, nil)
	expectStatus(t, resp, body, http.StatusOK)
	if decode[map[string]any](t, body)["balance"] != 0.0 {
		t.Fatalf("bob balance = %s", body)
	}

	path := fmt.Sprintf("/operations/%d", firstID)
	resp, body = env.do(t, "DELETE", path, bob, nil)
	expectStatus(t, resp, body, http.StatusNotFound)
	resp, body = env.do(t, "DELETE", path, alice, nil)
	expectStatus(t, resp, body, http.StatusOK)
	resp, body = env.do(t, "GET", path, alice, nil)
	expectStatus(t, resp, body, http.StatusNotFound)

	resp, body = env.do(t, "POST", "/categories", alice, map[string]any{"name": "Groceries"})
	expectStatus(t, resp, body, http.StatusOK)
	aliceCat := decode[map[string]any](t, body)["id"].(float64)
	resp, body = env.do(t, "POST", "/operations", alice, map[string]any{"date": "2025-03-01", "amount": -5, "category_id": aliceCat})
	expectStatus(t, resp, body, http.StatusOK)
	catOp := decode[map[string]any](t, body)
	cat, ok := catOp["category"].(map[string]any)
	if !ok || cat["id"] != aliceCat || cat["name"] != "Groceries" {
		t.Fatalf("embedded category = %s", body)
	}

	resp, body = env.do(t, "GET", fmt.Sprintf("/operations/%d", int64(catOp["id"].(float64))), alice, nil)
	expectStatus(t, resp, body, http.StatusOK)
	if cat, ok := decode[map[string]any](t, body)["category"].(map[string]any); !ok || cat["name"] != "Groceries" {
		t.Fatalf("get lost category = %s", body)
	}

	resp, body = env.do(t, "GET", "/operations?start_date=2025-01-15&end_date=2025-01-31", alice, nil)
	expectStatus(t, resp, body, http.StatusOK)
	for _, op := range decode[[]map[string]any](t, body) {
		if v, present := op["category"]; !present || v != nil {
			t.Fatalf("uncategorized op category = %v", v)
		}
	}
}
