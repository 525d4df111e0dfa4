package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/expense-tracker-be/internal/services"
)

// ItemHandler handles HTTP requests for items.
type ItemHandler struct {
	service services.ItemServiceProvider
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service services.ItemServiceProvider) *ItemHandler {
	return &ItemHandler{service: service}
}

// ItemPayload is the body of create and update requests.
type ItemPayload struct {
	Name       string `json:"name"`
	CategoryID string `json:"categoryId"`
}

// GetAll lists the caller's items.
func (h *ItemHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	items, err := h.service.GetItems(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err, "Failed to retrieve items")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// GetByCategory lists the items filed under one category.
func (h *ItemHandler) GetByCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	categoryID := chi.URLParam(r, "categoryId")
	items, err := h.service.GetItemsByCategory(r.Context(), user.ID, categoryID)
	if err != nil {
		respondError(w, r, err, "Failed to retrieve items")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Create handles the request to create a new item.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var payload ItemPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	item, err := h.service.CreateItem(r.Context(), user.ID, payload.Name, payload.CategoryID)
	if err != nil {
		respondError(w, r, err, "Failed to create item")
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// Update handles the request to rename or move an item.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var payload ItemPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	id := chi.URLParam(r, "id")
	item, err := h.service.UpdateItem(r.Context(), user.ID, id, payload.Name, payload.CategoryID)
	if err != nil {
		respondError(w, r, err, "Failed to update item")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Delete removes an item.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.DeleteItem(r.Context(), user.ID, id); err != nil {
		respondError(w, r, err, "Failed to delete item")
		return
	}
	respondJSON(w, http.StatusOK, Ack{Success: true, Message: "Item removed"})
}
