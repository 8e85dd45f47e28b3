package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"expensedash/internal/core"
)

func TestListExpenses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/expenses" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"1","amount":25.5,"category":"Food","description":"lunch","date":"2025-06-01"}]`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, 0).ListExpenses(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" || got[0].Amount.Cents != 2550 {
		t.Fatalf("got %+v", got)
	}
}

func TestCreateExpenseSendsDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/expenses" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if _, hasID := body["id"]; hasID {
			t.Fatalf("create body must not carry an id: %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"new-1","amount":10,"category":"c","description":"d","date":"2025-06-01"}`))
	}))
	defer srv.Close()

	draft := core.ExpenseDraft{
		Amount:      core.Money{Cents: 1000},
		Category:    "c",
		Description: "d",
		Date:        core.NewDate(2025, 6, 1),
	}
	got, err := NewClient(srv.URL, 0).CreateExpense(context.Background(), draft)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.ID != "new-1" {
		t.Fatalf("got id %q", got.ID)
	}
}

func TestRejectionMessageFromBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"expense not found"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0).GetExpense(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "expense not found" {
		t.Fatalf("got %+v", apiErr)
	}
}

func TestRejectionGenericFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, 0).DeleteExpense(context.Background(), "1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "remote returned status 500" {
		t.Fatalf("got %q", apiErr.Message)
	}
}

func TestNetworkFailure(t *testing.T) {
	// Closed server: the dial fails, which must not masquerade as a rejection.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewClient(srv.URL, 0).ListExpenses(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("network failure classified as rejection: %v", err)
	}
}
