// Package remote talks to the expense collection API: a REST-ish JSON
// collaborator exposing list/get/create/update/delete under /expenses. Any
// non-2xx response is a rejection carrying the collaborator's message text
// when one is present; transport errors surface as-is.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"expensedash/internal/core"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-success response from the collaborator.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the given base URL, e.g.
// "http://localhost:3000/api". A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ListExpenses fetches the whole collection.
func (c *Client) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	var out []core.Expense
	if err := c.do(ctx, http.MethodGet, "/expenses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetExpense fetches a single record by id.
func (c *Client) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	var out core.Expense
	if err := c.do(ctx, http.MethodGet, "/expenses/"+url.PathEscape(id), nil, &out); err != nil {
		return core.Expense{}, err
	}
	return out, nil
}

// CreateExpense posts a draft; the collaborator assigns the id.
func (c *Client) CreateExpense(ctx context.Context, draft core.ExpenseDraft) (core.Expense, error) {
	var out core.Expense
	if err := c.do(ctx, http.MethodPost, "/expenses", draft, &out); err != nil {
		return core.Expense{}, err
	}
	return out, nil
}

// UpdateExpense replaces all fields of the record with e.ID.
func (c *Client) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	var out core.Expense
	if err := c.do(ctx, http.MethodPut, "/expenses/"+url.PathEscape(e.ID), e, &out); err != nil {
		return core.Expense{}, err
	}
	return out, nil
}

// DeleteExpense removes the record by id. The collaborator echoes the
// deleted id; the body is not needed beyond the status check.
func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/expenses/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    rejectionMessage(resp),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// rejectionMessage extracts a human-readable message from an error body.
// Collaborators vary: some send {"error": ...}, some {"message": ...}, some
// plain text. Anything unusable falls back to a generic status line.
func rejectionMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(raw) > 0 {
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &body) == nil {
			if body.Error != "" {
				return body.Error
			}
			if body.Message != "" {
				return body.Message
			}
		}
		if s := strings.TrimSpace(string(raw)); s != "" && !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "<") {
			return s
		}
	}
	return fmt.Sprintf("remote returned status %d", resp.StatusCode)
}
