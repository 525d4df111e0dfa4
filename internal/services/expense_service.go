package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/expense-tracker-be/internal/database"
	"github.com/isdelr/expense-tracker-be/internal/models"
	"github.com/shopspring/decimal"
)

// CreateExpenseParams holds the fields of a new expense. A nil Amount means the
// amount was not supplied; a nil Date defaults to the current time.
type CreateExpenseParams struct {
	CategoryID  string
	ItemID      string
	Amount      *decimal.Decimal
	Description string
	Date        *time.Time
}

// UpdateExpenseParams holds a partial expense update; nil or empty fields are left alone.
type UpdateExpenseParams struct {
	CategoryID  string
	ItemID      string
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
}

// ExpenseServiceProvider defines the interface for expense services.
type ExpenseServiceProvider interface {
	GetExpenses(ctx context.Context, userID string) ([]models.Expense, error)
	CreateExpense(ctx context.Context, userID string, params CreateExpenseParams) (models.Expense, error)
	UpdateExpense(ctx context.Context, userID, id string, params UpdateExpenseParams) (models.Expense, error)
	DeleteExpense(ctx context.Context, userID, id string) error
	GetSummary(ctx context.Context, userID string) ([]models.CategorySummary, error)
}

// ExpenseService provides business logic for expense management.
type ExpenseService struct {
	db         *sql.DB
	categories *database.OwnedTable[models.Category]
	items      *database.OwnedTable[models.Item]
	expenses   *database.OwnedTable[models.Expense]
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(db *sql.DB) *ExpenseService {
	return &ExpenseService{
		db:         db,
		categories: categoryTable(db),
		items:      itemTable(db),
		expenses:   expenseTable(db),
	}
}

func (s *ExpenseService) get(ctx context.Context, userID, id string) (models.Expense, error) {
	expense, err := s.expenses.Get(ctx, userID, id)
	if errors.Is(err, database.ErrNotFound) {
		return models.Expense{}, notFoundError("expense not found")
	}
	return expense, err
}

// GetExpenses retrieves all expenses of a user, most recent date first.
func (s *ExpenseService) GetExpenses(ctx context.Context, userID string) ([]models.Expense, error) {
	return s.expenses.List(ctx, userID, database.OrderBy("e.date DESC, e.created_at DESC, e.id"))
}

// checkAmount rejects missing, zero and negative amounts.
func checkAmount(amount *decimal.Decimal) error {
	if amount == nil || amount.IsZero() {
		return validationError("amount is required")
	}
	if amount.IsNegative() {
		return validationError("amount cannot be negative")
	}
	return nil
}

// checkReferences verifies that the category and item belong to the user and
// that the item is filed under that category.
func (s *ExpenseService) checkReferences(ctx context.Context, userID, categoryID, itemID string) error {
	categoryExists, err := s.categories.Exists(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	item, err := s.items.Get(ctx, userID, itemID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return err
	}
	if !categoryExists || err != nil {
		return validationError("invalid category or item")
	}
	if item.CategoryID != categoryID {
		return validationError("item does not belong to category")
	}
	return nil
}

// CreateExpense records a new expense for a user.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID string, params CreateExpenseParams) (models.Expense, error) {
	if params.CategoryID == "" || params.ItemID == "" || params.Amount == nil {
		return models.Expense{}, validationError("please provide category, item and amount")
	}
	if err := checkAmount(params.Amount); err != nil {
		return models.Expense{}, err
	}
	if err := s.checkReferences(ctx, userID, params.CategoryID, params.ItemID); err != nil {
		return models.Expense{}, err
	}

	now := time.Now().UTC()
	expense := models.Expense{
		ID:          uuid.New().String(),
		UserID:      userID,
		CategoryID:  params.CategoryID,
		ItemID:      params.ItemID,
		Amount:      *params.Amount,
		Description: strings.TrimSpace(params.Description),
		Date:        now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if params.Date != nil {
		expense.Date = params.Date.UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, user_id, category_id, item_id, amount, description, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.UserID, expense.CategoryID, expense.ItemID, expense.Amount,
		expense.Description, expense.Date, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return models.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return s.get(ctx, userID, expense.ID)
}

// UpdateExpense changes the supplied fields of an expense.
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID, id string, params UpdateExpenseParams) (models.Expense, error) {
	expense, err := s.get(ctx, userID, id)
	if err != nil {
		return models.Expense{}, err
	}

	if params.CategoryID != "" || params.ItemID != "" {
		if params.CategoryID != "" {
			expense.CategoryID = params.CategoryID
		}
		if params.ItemID != "" {
			expense.ItemID = params.ItemID
		}
		if err := s.checkReferences(ctx, userID, expense.CategoryID, expense.ItemID); err != nil {
			return models.Expense{}, err
		}
	}
	if params.Amount != nil {
		if err := checkAmount(params.Amount); err != nil {
			return models.Expense{}, err
		}
		expense.Amount = *params.Amount
	}
	if params.Description != nil {
		expense.Description = strings.TrimSpace(*params.Description)
	}
	if params.Date != nil {
		expense.Date = params.Date.UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE expenses SET category_id = ?, item_id = ?, amount = ?, description = ?, date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		expense.CategoryID, expense.ItemID, expense.Amount, expense.Description, expense.Date.UTC(),
		time.Now().UTC(), id, userID,
	)
	if err != nil {
		return models.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	return s.get(ctx, userID, id)
}

// DeleteExpense removes an expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, id string) error {
	err := s.expenses.Delete(ctx, userID, id)
	if errors.Is(err, database.ErrNotFound) {
		return notFoundError("expense not found")
	}
	return err
}

// GetSummary totals a user's expenses per category. Categories without expenses
// are left out. Results are ordered by category name, then category id.
func (s *ExpenseService) GetSummary(ctx context.Context, userID string) ([]models.CategorySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.category_id, c.name, e.amount
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	// Amounts are summed here rather than with SQL SUM, which would go through floats.
	totals := make(map[string]*models.CategorySummary)
	for rows.Next() {
		var categoryID, name string
		var amount decimal.Decimal
		if err := rows.Scan(&categoryID, &name, &amount); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		entry, ok := totals[categoryID]
		if !ok {
			entry = &models.CategorySummary{CategoryID: categoryID, Category: name, TotalAmount: decimal.Zero}
			totals[categoryID] = entry
		}
		entry.TotalAmount = entry.TotalAmount.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summary := make([]models.CategorySummary, 0, len(totals))
	for _, entry := range totals {
		summary = append(summary, *entry)
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Category != summary[j].Category {
			return summary[i].Category < summary[j].Category
		}
		return summary[i].CategoryID < summary[j].CategoryID
	})
	return summary, nil
}
