package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/expense-tracker-be/internal/services"
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles HTTP requests for expenses and their summary.
type ExpenseHandler struct {
	service services.ExpenseServiceProvider
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(service services.ExpenseServiceProvider) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// ExpensePayload is the body of create and update requests. Amount accepts a JSON
// number or a numeric string.
type ExpensePayload struct {
	CategoryID  string              `json:"categoryId"`
	ItemID      string              `json:"itemId"`
	Amount      decimal.NullDecimal `json:"amount"`
	Description *string             `json:"description"`
	Date        string              `json:"date"`
}

func (p ExpensePayload) amount() *decimal.Decimal {
	if !p.Amount.Valid {
		return nil
	}
	return &p.Amount.Decimal
}

func (p ExpensePayload) date(w http.ResponseWriter) (*time.Time, bool) {
	if p.Date == "" {
		return nil, true
	}
	d, err := parseDate(p.Date)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "date must be RFC 3339 or YYYY-MM-DD")
		return nil, false
	}
	return &d, true
}

// GetAll lists the caller's expenses, newest first.
func (h *ExpenseHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	expenses, err := h.service.GetExpenses(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err, "Failed to retrieve expenses")
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

// Create records a new expense.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var payload ExpensePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	date, ok := payload.date(w)
	if !ok {
		return
	}

	params := services.CreateExpenseParams{
		CategoryID: payload.CategoryID,
		ItemID:     payload.ItemID,
		Amount:     payload.amount(),
		Date:       date,
	}
	if payload.Description != nil {
		params.Description = *payload.Description
	}

	expense, err := h.service.CreateExpense(r.Context(), user.ID, params)
	if err != nil {
		respondError(w, r, err, "Failed to create expense")
		return
	}
	respondJSON(w, http.StatusCreated, expense)
}

// Update changes the supplied fields of an expense.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var payload ExpensePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	date, ok := payload.date(w)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	expense, err := h.service.UpdateExpense(r.Context(), user.ID, id, services.UpdateExpenseParams{
		CategoryID:  payload.CategoryID,
		ItemID:      payload.ItemID,
		Amount:      payload.amount(),
		Description: payload.Description,
		Date:        date,
	})
	if err != nil {
		respondError(w, r, err, "Failed to update expense")
		return
	}
	respondJSON(w, http.StatusOK, expense)
}

// Delete removes an expense.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.DeleteExpense(r.Context(), user.ID, id); err != nil {
		respondError(w, r, err, "Failed to delete expense")
		return
	}
	respondJSON(w, http.StatusOK, Ack{Success: true, Message: "Expense removed"})
}

// Summary returns the caller's per-category totals.
func (h *ExpenseHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetSummary(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err, "Failed to retrieve summary")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
