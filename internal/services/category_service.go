package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/expense-tracker-be/internal/database"
	"github.com/isdelr/expense-tracker-be/internal/models"
)

// CategoryServiceProvider defines the interface for category services.
type CategoryServiceProvider interface {
	GetCategories(ctx context.Context, userID string) ([]models.Category, error)
	GetCategoryWithItems(ctx context.Context, userID, id string) (models.CategoryWithItems, error)
	CreateCategory(ctx context.Context, userID, name string) (models.Category, error)
	UpdateCategory(ctx context.Context, userID, id, name string) (models.Category, error)
	DeleteCategory(ctx context.Context, userID, id string) error
}

// CategoryService provides business logic for category management.
type CategoryService struct {
	db         *sql.DB
	categories *database.OwnedTable[models.Category]
	items      *database.OwnedTable[models.Item]
	expenses   *database.OwnedTable[models.Expense]
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *sql.DB) *CategoryService {
	return &CategoryService{
		db:         db,
		categories: categoryTable(db),
		items:      itemTable(db),
		expenses:   expenseTable(db),
	}
}

func (s *CategoryService) get(ctx context.Context, userID, id string) (models.Category, error) {
	category, err := s.categories.Get(ctx, userID, id)
	if errors.Is(err, database.ErrNotFound) {
		return models.Category{}, notFoundError("category not found")
	}
	return category, err
}

// GetCategories retrieves every category of a user in creation order.
func (s *CategoryService) GetCategories(ctx context.Context, userID string) ([]models.Category, error) {
	return s.categories.List(ctx, userID, database.OrderBy("c.created_at, c.id"))
}

// GetCategoryWithItems retrieves a category together with its items.
func (s *CategoryService) GetCategoryWithItems(ctx context.Context, userID, id string) (models.CategoryWithItems, error) {
	category, err := s.get(ctx, userID, id)
	if err != nil {
		return models.CategoryWithItems{}, err
	}

	items, err := s.items.List(ctx, userID, database.Where("category_id", id), database.OrderBy("i.created_at, i.id"))
	if err != nil {
		return models.CategoryWithItems{}, err
	}
	return models.CategoryWithItems{Category: category, Items: items}, nil
}

// CreateCategory adds a new category for a user.
func (s *CategoryService) CreateCategory(ctx context.Context, userID, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, validationError("please add a category name")
	}

	now := time.Now().UTC()
	category := models.Category{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (id, user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		category.ID, category.UserID, category.Name, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		return models.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return category, nil
}

// UpdateCategory renames a category. An empty name leaves the current one in place.
func (s *CategoryService) UpdateCategory(ctx context.Context, userID, id, name string) (models.Category, error) {
	category, err := s.get(ctx, userID, id)
	if err != nil {
		return models.Category{}, err
	}

	if name = strings.TrimSpace(name); name != "" {
		category.Name = name
	}
	category.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		category.Name, category.UpdatedAt, id, userID,
	)
	if err != nil {
		return models.Category{}, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category and its items. It refuses while any expense
// still references the category; nothing is removed in that case.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	categories := s.categories.WithTx(tx)
	exists, err := categories.Exists(ctx, userID, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundError("category not found")
	}

	n, err := s.expenses.WithTx(tx).Count(ctx, userID, database.Where("category_id", id))
	if err != nil {
		return err
	}
	if n > 0 {
		return conflictError("cannot delete category with associated expenses, please delete expenses first")
	}

	if _, err := s.items.WithTx(tx).DeleteWhere(ctx, userID, database.Where("category_id", id)); err != nil {
		return err
	}
	if err := categories.Delete(ctx, userID, id); err != nil {
		return err
	}
	return tx.Commit()
}
