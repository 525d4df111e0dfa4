package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, e.g. 15.75 rather than "15.75".
	decimal.MarshalJSONWithoutQuotes = true
}

// Expense is a single dated spend against a category and item.
type Expense struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
	ItemID       string          `json:"itemId"`
	ItemName     string          `json:"itemName,omitempty"` // Empty once the item is deleted
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Date         time.Time       `json:"date"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// CategorySummary is the total spent in one category.
type CategorySummary struct {
	CategoryID  string          `json:"categoryId"`
	Category    string          `json:"category"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}
