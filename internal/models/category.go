package models

import "time"

// Category groups items and expenses of one user.
type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryWithItems is a category together with the items filed under it.
type CategoryWithItems struct {
	Category Category `json:"category"`
	Items    []Item   `json:"items"`
}
