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

// ItemServiceProvider defines the interface for item services.
type ItemServiceProvider interface {
	GetItems(ctx context.Context, userID string) ([]models.Item, error)
	GetItemsByCategory(ctx context.Context, userID, categoryID string) ([]models.Item, error)
	CreateItem(ctx context.Context, userID, name, categoryID string) (models.Item, error)
	UpdateItem(ctx context.Context, userID, id, name, categoryID string) (models.Item, error)
	DeleteItem(ctx context.Context, userID, id string) error
}

// ItemService provides business logic for item management.
type ItemService struct {
	db         *sql.DB
	categories *database.OwnedTable[models.Category]
	items      *database.OwnedTable[models.Item]
}

// NewItemService creates a new ItemService.
func NewItemService(db *sql.DB) *ItemService {
	return &ItemService{
		db:         db,
		categories: categoryTable(db),
		items:      itemTable(db),
	}
}

func (s *ItemService) get(ctx context.Context, userID, id string) (models.Item, error) {
	item, err := s.items.Get(ctx, userID, id)
	if errors.Is(err, database.ErrNotFound) {
		return models.Item{}, notFoundError("item not found")
	}
	return item, err
}

// GetItems retrieves all items of a user with their category names.
func (s *ItemService) GetItems(ctx context.Context, userID string) ([]models.Item, error) {
	return s.items.List(ctx, userID, database.OrderBy("i.created_at, i.id"))
}

// GetItemsByCategory retrieves the items filed under one of the user's categories.
func (s *ItemService) GetItemsByCategory(ctx context.Context, userID, categoryID string) ([]models.Item, error) {
	exists, err := s.categories.Exists(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFoundError("category not found")
	}
	return s.items.List(ctx, userID, database.Where("category_id", categoryID), database.OrderBy("i.created_at, i.id"))
}

// CreateItem adds a new item under one of the user's categories.
func (s *ItemService) CreateItem(ctx context.Context, userID, name, categoryID string) (models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" || categoryID == "" {
		return models.Item{}, validationError("please add item name and category")
	}

	exists, err := s.categories.Exists(ctx, userID, categoryID)
	if err != nil {
		return models.Item{}, err
	}
	if !exists {
		return models.Item{}, validationError("invalid category")
	}

	now := time.Now().UTC()
	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO items (id, user_id, category_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, userID, categoryID, name, now, now,
	)
	if err != nil {
		return models.Item{}, fmt.Errorf("insert item: %w", err)
	}
	return s.get(ctx, userID, id)
}

// UpdateItem renames an item and/or moves it to another category. Empty arguments
// leave the corresponding field unchanged.
func (s *ItemService) UpdateItem(ctx context.Context, userID, id, name, categoryID string) (models.Item, error) {
	item, err := s.get(ctx, userID, id)
	if err != nil {
		return models.Item{}, err
	}

	if categoryID != "" {
		exists, err := s.categories.Exists(ctx, userID, categoryID)
		if err != nil {
			return models.Item{}, err
		}
		if !exists {
			return models.Item{}, validationError("invalid category")
		}
		item.CategoryID = categoryID
	}
	if name = strings.TrimSpace(name); name != "" {
		item.Name = name
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE items SET name = ?, category_id = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		item.Name, item.CategoryID, time.Now().UTC(), id, userID,
	)
	if err != nil {
		return models.Item{}, fmt.Errorf("update item: %w", err)
	}
	return s.get(ctx, userID, id)
}

// DeleteItem removes an item. Expenses that reference it are kept.
func (s *ItemService) DeleteItem(ctx context.Context, userID, id string) error {
	err := s.items.Delete(ctx, userID, id)
	if errors.Is(err, database.ErrNotFound) {
		return notFoundError("item not found")
	}
	return err
}
