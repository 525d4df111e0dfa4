package client

import (
	"sort"
	"time"

	"github.com/isdelr/expense-tracker-be/internal/models"
	"github.com/shopspring/decimal"
)

// UnknownItem labels expenses whose item no longer exists.
const UnknownItem = "Unknown"

// DailyWindow is the number of days covered by DailySummary.
const DailyWindow = 7

// ItemTotal is the amount spent on one item name.
type ItemTotal struct {
	Item        string          `json:"item"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// DayTotal is the amount spent on one calendar day.
type DayTotal struct {
	Label       string          `json:"date"`     // e.g. "Jan 02"
	Date        string          `json:"fullDate"` // YYYY-MM-DD
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// Total sums the amounts of expenses.
func Total(expenses []models.Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// ItemSummary totals expenses per item name, largest total first. Ties are
// broken by name so the order is stable.
func ItemSummary(expenses []models.Expense) []ItemTotal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		name := e.ItemName
		if name == "" {
			name = UnknownItem
		}
		totals[name] = totals[name].Add(e.Amount)
	}

	out := make([]ItemTotal, 0, len(totals))
	for name, total := range totals {
		out = append(out, ItemTotal{Item: name, TotalAmount: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalAmount.Cmp(out[j].TotalAmount); c != 0 {
			return c > 0
		}
		return out[i].Item < out[j].Item
	})
	return out
}

// DailySummary returns the totals of the DailyWindow calendar days ending on the
// day of now in loc, oldest first. Every day is present, with zero when nothing
// was spent. A nil loc means time.Local.
func DailySummary(expenses []models.Expense, now time.Time, loc *time.Location) []DayTotal {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	out := make([]DayTotal, DailyWindow)
	index := make(map[string]int, DailyWindow)
	for i := range out {
		day := today.AddDate(0, 0, i-(DailyWindow-1))
		key := day.Format(time.DateOnly)
		out[i] = DayTotal{Label: day.Format("Jan 02"), Date: key, TotalAmount: decimal.Zero}
		index[key] = i
	}

	for _, e := range expenses {
		if i, ok := index[e.Date.In(loc).Format(time.DateOnly)]; ok {
			out[i].TotalAmount = out[i].TotalAmount.Add(e.Amount)
		}
	}
	return out
}
