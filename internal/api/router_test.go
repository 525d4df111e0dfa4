package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/isdelr/expense-tracker-be/internal/auth"
	"github.com/isdelr/expense-tracker-be/internal/database"
	"github.com/isdelr/expense-tracker-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RouterSuite struct {
	suite.Suite
	handler http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	db, err := database.New(filepath.Join(s.T().TempDir(), "api.db"))
	s.Require().NoError(err)
	s.T().Cleanup(func() { db.Close() })
	s.Require().NoError(database.Migrate(db))

	tokens := auth.NewTokenManager("router-test-secret", time.Hour)
	s.handler = NewRouter(tokens, []string{"http://localhost:3000"}, Services{
		Users:      services.NewUserService(db, tokens),
		Categories: services.NewCategoryService(db),
		Items:      services.NewItemService(db),
		Expenses:   services.NewExpenseService(db),
	})
}

// do sends a JSON request and returns the status and raw body.
func (s *RouterSuite) do(method, path, token string, body any) (int, []byte) {
	var reader io.Reader = http.NoBody
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			s.Require().NoError(err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w.Code, w.Body.Bytes()
}

func (s *RouterSuite) decode(raw []byte, v any) {
	s.Require().NoError(json.Unmarshal(raw, v), string(raw))
}

func (s *RouterSuite) register(name, email string) string {
	code, raw := s.do(http.MethodPost, "/api/users", "", map[string]string{
		"name": name, "email": email, "password": "secret123",
	})
	s.Require().Equal(http.StatusCreated, code, string(raw))

	var res struct {
		Token   string         `json:"token"`
		Profile map[string]any `json:"profile"`
	}
	s.decode(raw, &res)
	s.Require().NotEmpty(res.Token)
	return res.Token
}

func (s *RouterSuite) create(path, token string, body any) map[string]any {
	code, raw := s.do(http.MethodPost, path, token, body)
	s.Require().Equal(http.StatusCreated, code, string(raw))
	var out map[string]any
	s.decode(raw, &out)
	return out
}

func (s *RouterSuite) message(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	s.decode(raw, &body)
	return body.Message
}

func (s *RouterSuite) TestRegisterAndLogin() {
	code, raw := s.do(http.MethodPost, "/api/users", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret123",
	})
	s.Require().Equal(http.StatusCreated, code)
	s.NotContains(string(raw), "password")
	s.NotContains(string(raw), "secret123")

	code, raw = s.do(http.MethodPost, "/api/users", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret123",
	})
	s.Equal(http.StatusConflict, code)
	s.Equal("user already exists", s.message(raw))

	code, raw = s.do(http.MethodPost, "/api/users", "", map[string]string{"email": "x@example.com"})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("please add all fields", s.message(raw))

	code, raw = s.do(http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	})
	s.Require().Equal(http.StatusOK, code)
	var login struct {
		Token   string `json:"token"`
		Profile struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"profile"`
	}
	s.decode(raw, &login)
	s.Equal("Alice", login.Profile.Name)

	code, raw = s.do(http.MethodGet, "/api/users/profile", login.Token, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Contains(string(raw), `"email":"alice@example.com"`)

	code, _ = s.do(http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "alice@example.com", "password": "nope",
	})
	s.Equal(http.StatusUnauthorized, code)
}

func (s *RouterSuite) TestMalformedBody() {
	code, raw := s.do(http.MethodPost, "/api/users", "", "{not json")
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Invalid request body", s.message(raw))
}

func (s *RouterSuite) TestProtectedRoutesRequireToken() {
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/users/profile"},
		{http.MethodGet, "/api/categories"},
		{http.MethodPost, "/api/categories"},
		{http.MethodPut, "/api/categories/x"},
		{http.MethodDelete, "/api/categories/x"},
		{http.MethodGet, "/api/categories/x/items"},
		{http.MethodGet, "/api/items"},
		{http.MethodPost, "/api/items"},
		{http.MethodPut, "/api/items/x"},
		{http.MethodDelete, "/api/items/x"},
		{http.MethodGet, "/api/items/category/x"},
		{http.MethodGet, "/api/expenses"},
		{http.MethodPost, "/api/expenses"},
		{http.MethodPut, "/api/expenses/x"},
		{http.MethodDelete, "/api/expenses/x"},
		{http.MethodGet, "/api/expenses/summary"},
	}
	for _, rt := range routes {
		s.Run(rt.method+" "+rt.path, func() {
			code, raw := s.do(rt.method, rt.path, "", nil)
			s.Equal(http.StatusUnauthorized, code)
			s.NotEmpty(s.message(raw))

			code, _ = s.do(rt.method, rt.path, "garbage", nil)
			s.Equal(http.StatusUnauthorized, code)
		})
	}
}

func (s *RouterSuite) TestEmptyListsEncodeAsArrays() {
	token := s.register("Alice", "alice@example.com")
	for _, path := range []string{"/api/categories", "/api/items", "/api/expenses", "/api/expenses/summary"} {
		code, raw := s.do(http.MethodGet, path, token, nil)
		s.Equal(http.StatusOK, code, path)
		s.JSONEq(`[]`, string(raw), path)
	}
}

func (s *RouterSuite) TestExpenseFlow() {
	token := s.register("Alice", "alice@example.com")

	food := s.create("/api/categories", token, map[string]string{"name": "Food"})
	s.create("/api/categories", token, map[string]string{"name": "Travel"})
	bread := s.create("/api/items", token, map[string]string{"name": "Bread", "categoryId": food["id"].(string)})
	milk := s.create("/api/items", token, map[string]string{"name": "Milk", "categoryId": food["id"].(string)})
	s.Equal("Food", bread["categoryName"])

	first := s.create("/api/expenses", token, map[string]any{
		"categoryId": food["id"], "itemId": bread["id"], "amount": 10.50, "date": "2024-01-01",
	})
	s.create("/api/expenses", token, map[string]any{
		"categoryId": food["id"], "itemId": milk["id"], "amount": "5.25", "date": "2024-02-01T09:30:00Z",
		"description": "oat",
	})
	s.Equal("Bread", first["itemName"])
	s.EqualValues(10.5, first["amount"])

	code, raw := s.do(http.MethodGet, "/api/expenses", token, nil)
	s.Require().Equal(http.StatusOK, code)
	var list []map[string]any
	s.decode(raw, &list)
	s.Require().Len(list, 2)
	s.Equal("oat", list[0]["description"], "newest first")

	code, raw = s.do(http.MethodGet, "/api/expenses/summary", token, nil)
	s.Require().Equal(http.StatusOK, code)
	var summary []map[string]any
	s.decode(raw, &summary)
	s.Require().Len(summary, 1)
	s.Equal("Food", summary[0]["category"])
	s.EqualValues(15.75, summary[0]["totalAmount"])

	code, raw = s.do(http.MethodPut, "/api/expenses/"+first["id"].(string), token, map[string]any{"amount": 12})
	s.Require().Equal(http.StatusOK, code, string(raw))
	s.Contains(string(raw), `"amount":12`)

	code, raw = s.do(http.MethodDelete, "/api/categories/"+food["id"].(string), token, nil)
	s.Equal(http.StatusConflict, code)
	s.Contains(s.message(raw), "associated expenses")

	code, raw = s.do(http.MethodGet, "/api/categories/"+food["id"].(string)+"/items", token, nil)
	s.Require().Equal(http.StatusOK, code)
	var withItems struct {
		Category map[string]any   `json:"category"`
		Items    []map[string]any `json:"items"`
	}
	s.decode(raw, &withItems)
	s.Equal("Food", withItems.Category["name"])
	s.Len(withItems.Items, 2)

	for _, e := range list {
		code, raw = s.do(http.MethodDelete, "/api/expenses/"+e["id"].(string), token, nil)
		s.Require().Equal(http.StatusOK, code)
		s.JSONEq(`{"success":true,"message":"Expense removed"}`, string(raw))
	}

	code, raw = s.do(http.MethodDelete, "/api/categories/"+food["id"].(string), token, nil)
	s.Require().Equal(http.StatusOK, code, string(raw))
	s.Contains(string(raw), `"success":true`)

	code, raw = s.do(http.MethodGet, "/api/items", token, nil)
	s.Require().Equal(http.StatusOK, code)
	s.JSONEq(`[]`, string(raw))
}

func (s *RouterSuite) TestExpenseValidation() {
	token := s.register("Alice", "alice@example.com")
	food := s.create("/api/categories", token, map[string]string{"name": "Food"})
	bread := s.create("/api/items", token, map[string]string{"name": "Bread", "categoryId": food["id"].(string)})

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing amount", map[string]any{"categoryId": food["id"], "itemId": bread["id"]}},
		{"zero amount", map[string]any{"categoryId": food["id"], "itemId": bread["id"], "amount": 0}},
		{"bad date", map[string]any{"categoryId": food["id"], "itemId": bread["id"], "amount": 1, "date": "01/02/2024"}},
		{"unknown item", map[string]any{"categoryId": food["id"], "itemId": "nope", "amount": 1}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			code, raw := s.do(http.MethodPost, "/api/expenses", token, tt.body)
			s.Equal(http.StatusBadRequest, code)
			s.NotEmpty(s.message(raw))
		})
	}
}

func (s *RouterSuite) TestCrossUserAccess() {
	alice := s.register("Alice", "alice@example.com")
	bob := s.register("Bob", "bob@example.com")

	food := s.create("/api/categories", alice, map[string]string{"name": "Food"})
	bread := s.create("/api/items", alice, map[string]string{"name": "Bread", "categoryId": food["id"].(string)})
	expense := s.create("/api/expenses", alice, map[string]any{
		"categoryId": food["id"], "itemId": bread["id"], "amount": 3,
	})

	catID, itemID, expID := food["id"].(string), bread["id"].(string), expense["id"].(string)
	attempts := []struct {
		method, path string
		body         any
	}{
		{http.MethodPut, "/api/categories/" + catID, map[string]string{"name": "Mine"}},
		{http.MethodDelete, "/api/categories/" + catID, nil},
		{http.MethodGet, "/api/categories/" + catID + "/items", nil},
		{http.MethodPut, "/api/items/" + itemID, map[string]string{"name": "Mine"}},
		{http.MethodDelete, "/api/items/" + itemID, nil},
		{http.MethodGet, "/api/items/category/" + catID, nil},
		{http.MethodPut, "/api/expenses/" + expID, map[string]any{"amount": 1}},
		{http.MethodDelete, "/api/expenses/" + expID, nil},
	}
	for _, a := range attempts {
		s.Run(a.method+" "+a.path, func() {
			code, _ := s.do(a.method, a.path, bob, a.body)
			s.Equal(http.StatusNotFound, code)
		})
	}

	for _, path := range []string{"/api/categories", "/api/items", "/api/expenses", "/api/expenses/summary"} {
		code, raw := s.do(http.MethodGet, path, bob, nil)
		s.Equal(http.StatusOK, code)
		s.JSONEq(`[]`, string(raw), path)
	}

	code, raw := s.do(http.MethodGet, "/api/expenses", alice, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Contains(string(raw), expID)
}

func TestUnknownRoute(t *testing.T) {
	r := NewRouter(auth.NewTokenManager("secret", time.Hour), []string{"*"}, Services{})
	req := httptest.NewRequest(http.MethodGet, "/nowhere", http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Not found"}`, w.Body.String())
}
