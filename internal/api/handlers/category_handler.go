package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/expense-tracker-be/internal/services"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service services.CategoryServiceProvider
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service services.CategoryServiceProvider) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// CategoryPayload is the body of create and update requests.
type CategoryPayload struct {
	Name string `json:"name"`
}

// GetAll lists the caller's categories.
func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	categories, err := h.service.GetCategories(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err, "Failed to retrieve categories")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// GetWithItems returns a category together with its items.
func (h *CategoryHandler) GetWithItems(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	category, err := h.service.GetCategoryWithItems(r.Context(), user.ID, id)
	if err != nil {
		respondError(w, r, err, "Failed to retrieve category")
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// Create handles the request to create a new category.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var payload CategoryPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), user.ID, payload.Name)
	if err != nil {
		respondError(w, r, err, "Failed to create category")
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

// Update handles the request to rename a category.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var payload CategoryPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	id := chi.URLParam(r, "id")
	category, err := h.service.UpdateCategory(r.Context(), user.ID, id, payload.Name)
	if err != nil {
		respondError(w, r, err, "Failed to update category")
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// Delete removes a category and its items.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.DeleteCategory(r.Context(), user.ID, id); err != nil {
		respondError(w, r, err, "Failed to delete category")
		return
	}
	respondJSON(w, http.StatusOK, Ack{Success: true, Message: "Category and associated items removed"})
}
