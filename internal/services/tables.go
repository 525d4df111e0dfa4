package services

import (
	"database/sql"

	"github.com/isdelr/expense-tracker-be/internal/database"
	"github.com/isdelr/expense-tracker-be/internal/models"
)

func categoryTable(db *sql.DB) *database.OwnedTable[models.Category] {
	return database.NewOwnedTable(db, database.TableSpec[models.Category]{
		Table:   "categories",
		Alias:   "c",
		Columns: "c.id, c.user_id, c.name, c.created_at, c.updated_at",
		Scan: func(s database.Scanner) (models.Category, error) {
			var c models.Category
			err := s.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
			return c, err
		},
	})
}

func itemTable(db *sql.DB) *database.OwnedTable[models.Item] {
	return database.NewOwnedTable(db, database.TableSpec[models.Item]{
		Table:   "items",
		Alias:   "i",
		Joins:   "LEFT JOIN categories c ON c.id = i.category_id",
		Columns: "i.id, i.user_id, i.category_id, COALESCE(c.name, ''), i.name, i.created_at, i.updated_at",
		Scan: func(s database.Scanner) (models.Item, error) {
			var i models.Item
			err := s.Scan(&i.ID, &i.UserID, &i.CategoryID, &i.CategoryName, &i.Name, &i.CreatedAt, &i.UpdatedAt)
			return i, err
		},
	})
}

func expenseTable(db *sql.DB) *database.OwnedTable[models.Expense] {
	return database.NewOwnedTable(db, database.TableSpec[models.Expense]{
		Table: "expenses",
		Alias: "e",
		Joins: "LEFT JOIN categories c ON c.id = e.category_id LEFT JOIN items i ON i.id = e.item_id",
		Columns: `e.id, e.user_id, e.category_id, COALESCE(c.name, ''), e.item_id, COALESCE(i.name, ''),
			e.amount, e.description, e.date, e.created_at, e.updated_at`,
		Scan: func(s database.Scanner) (models.Expense, error) {
			var e models.Expense
			err := s.Scan(&e.ID, &e.UserID, &e.CategoryID, &e.CategoryName, &e.ItemID, &e.ItemName,
				&e.Amount, &e.Description, &e.Date, &e.CreatedAt, &e.UpdatedAt)
			return e, err
		},
	})
}
