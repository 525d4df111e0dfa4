// Package client is a typed HTTP client for the expense tracker API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/isdelr/expense-tracker-be/internal/models"
	"github.com/shopspring/decimal"
)

// ErrUnauthorized is matched by every 401 APIError. Callers drop their session on it.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api error: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Session carries the bearer token of a signed-in user. It is passed explicitly
// to every authenticated call.
type Session struct {
	Token string
}

// Client talks to one API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for baseURL, e.g. "http://localhost:8080". A nil
// httpClient gets a default one with a timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// ExpenseInput is the body of a new expense. Date is RFC 3339 or YYYY-MM-DD; empty means now.
type ExpenseInput struct {
	CategoryID  string          `json:"categoryId"`
	ItemID      string          `json:"itemId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Date        string          `json:"date,omitempty"`
}

// ExpenseUpdate holds the fields to change on an expense; nil fields are left alone.
type ExpenseUpdate struct {
	CategoryID  string           `json:"categoryId,omitempty"`
	ItemID      string           `json:"itemId,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description *string          `json:"description,omitempty"`
	Date        string           `json:"date,omitempty"`
}

// Ack is the acknowledgement returned by deletes.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, s *Session, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s != nil && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func escape(id string) string { return url.PathEscape(id) }

// Register creates an account and returns its first session token with the profile.
func (c *Client) Register(ctx context.Context, name, email, password string) (models.AuthResult, error) {
	var res models.AuthResult
	err := c.do(ctx, http.MethodPost, "/api/users", nil,
		map[string]string{"name": name, "email": email, "password": password}, &res)
	return res, err
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (models.AuthResult, error) {
	var res models.AuthResult
	err := c.do(ctx, http.MethodPost, "/api/users/login", nil,
		map[string]string{"email": email, "password": password}, &res)
	return res, err
}

// Profile returns the signed-in user.
func (c *Client) Profile(ctx context.Context, s Session) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/api/users/profile", &s, nil, &user)
	return user, err
}

// Categories lists the user's categories.
func (c *Client) Categories(ctx context.Context, s Session) ([]models.Category, error) {
	var out []models.Category
	err := c.do(ctx, http.MethodGet, "/api/categories", &s, nil, &out)
	return out, err
}

// CategoryWithItems fetches a category and its items.
func (c *Client) CategoryWithItems(ctx context.Context, s Session, id string) (models.CategoryWithItems, error) {
	var out models.CategoryWithItems
	err := c.do(ctx, http.MethodGet, "/api/categories/"+escape(id)+"/items", &s, nil, &out)
	return out, err
}

func (c *Client) CreateCategory(ctx context.Context, s Session, name string) (models.Category, error) {
	var out models.Category
	err := c.do(ctx, http.MethodPost, "/api/categories", &s, map[string]string{"name": name}, &out)
	return out, err
}

func (c *Client) UpdateCategory(ctx context.Context, s Session, id, name string) (models.Category, error) {
	var out models.Category
	err := c.do(ctx, http.MethodPut, "/api/categories/"+escape(id), &s, map[string]string{"name": name}, &out)
	return out, err
}

// DeleteCategory removes a category and its items. The server refuses while
// expenses still reference it.
func (c *Client) DeleteCategory(ctx context.Context, s Session, id string) (Ack, error) {
	var out Ack
	err := c.do(ctx, http.MethodDelete, "/api/categories/"+escape(id), &s, nil, &out)
	return out, err
}

// Items lists all of the user's items.
func (c *Client) Items(ctx context.Context, s Session) ([]models.Item, error) {
	var out []models.Item
	err := c.do(ctx, http.MethodGet, "/api/items", &s, nil, &out)
	return out, err
}

// ItemsByCategory lists the items of one category.
func (c *Client) ItemsByCategory(ctx context.Context, s Session, categoryID string) ([]models.Item, error) {
	var out []models.Item
	err := c.do(ctx, http.MethodGet, "/api/items/category/"+escape(categoryID), &s, nil, &out)
	return out, err
}

func (c *Client) CreateItem(ctx context.Context, s Session, name, categoryID string) (models.Item, error) {
	var out models.Item
	err := c.do(ctx, http.MethodPost, "/api/items", &s,
		map[string]string{"name": name, "categoryId": categoryID}, &out)
	return out, err
}

func (c *Client) UpdateItem(ctx context.Context, s Session, id, name, categoryID string) (models.Item, error) {
	var out models.Item
	err := c.do(ctx, http.MethodPut, "/api/items/"+escape(id), &s,
		map[string]string{"name": name, "categoryId": categoryID}, &out)
	return out, err
}

func (c *Client) DeleteItem(ctx context.Context, s Session, id string) (Ack, error) {
	var out Ack
	err := c.do(ctx, http.MethodDelete, "/api/items/"+escape(id), &s, nil, &out)
	return out, err
}

// Expenses lists the user's expenses, newest first.
func (c *Client) Expenses(ctx context.Context, s Session) ([]models.Expense, error) {
	var out []models.Expense
	err := c.do(ctx, http.MethodGet, "/api/expenses", &s, nil, &out)
	return out, err
}

func (c *Client) CreateExpense(ctx context.Context, s Session, in ExpenseInput) (models.Expense, error) {
	var out models.Expense
	err := c.do(ctx, http.MethodPost, "/api/expenses", &s, in, &out)
	return out, err
}

func (c *Client) UpdateExpense(ctx context.Context, s Session, id string, in ExpenseUpdate) (models.Expense, error) {
	var out models.Expense
	err := c.do(ctx, http.MethodPut, "/api/expenses/"+escape(id), &s, in, &out)
	return out, err
}

func (c *Client) DeleteExpense(ctx context.Context, s Session, id string) (Ack, error) {
	var out Ack
	err := c.do(ctx, http.MethodDelete, "/api/expenses/"+escape(id), &s, nil, &out)
	return out, err
}

// Summary returns the server-side per-category totals.
func (c *Client) Summary(ctx context.Context, s Session) ([]models.CategorySummary, error) {
	var out []models.CategorySummary
	err := c.do(ctx, http.MethodGet, "/api/expenses/summary", &s, nil, &out)
	return out, err
}
