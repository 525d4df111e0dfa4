package client

import (
	"time"

	"github.com/isdelr/expense-tracker-be/internal/models"
)

// ExpenseFilter selects expenses by category, item and calendar day. Empty
// fields and a zero Day match everything.
type ExpenseFilter struct {
	CategoryID string
	ItemID     string
	Day        time.Time
	// Location decides which calendar day an expense falls on; nil means time.Local.
	Location *time.Location
}

// FilterExpenses returns the expenses matching f, in input order.
func FilterExpenses(expenses []models.Expense, f ExpenseFilter) []models.Expense {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	var day string
	if !f.Day.IsZero() {
		day = f.Day.In(loc).Format(time.DateOnly)
	}

	out := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.CategoryID != "" && e.CategoryID != f.CategoryID {
			continue
		}
		if f.ItemID != "" && e.ItemID != f.ItemID {
			continue
		}
		if day != "" && e.Date.In(loc).Format(time.DateOnly) != day {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ItemsInCategory narrows items to one category, as the expense form does once a
// category is picked. An empty categoryID yields no items.
func ItemsInCategory(items []models.Item, categoryID string) []models.Item {
	out := make([]models.Item, 0)
	if categoryID == "" {
		return out
	}
	for _, it := range items {
		if it.CategoryID == categoryID {
			out = append(out, it)
		}
	}
	return out
}
