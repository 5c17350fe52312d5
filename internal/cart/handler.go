package cart

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Handler struct {
	store        *Store
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewHandler(
	store *Store,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *Handler {
	return &Handler{store: store, respondJSON: respondJSON, respondError: respondError}
}

func (h *Handler) GetCart(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   h.store.State(),
	})
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var item Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil || item.ProductID == "" || item.Quantity <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.store.Add(item); err != nil {
		h.respondError(w, http.StatusBadGateway, h.store.State().Error)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   h.store.State(),
	})
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemID")
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || itemID == "" {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.store.UpdateQuantity(itemID, req.Quantity); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			h.respondError(w, http.StatusNotFound, ErrItemNotFound.Error())
			return
		}
		h.respondError(w, http.StatusBadGateway, h.store.State().Error)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   h.store.State(),
	})
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemID")
	if itemID == "" {
		h.respondError(w, http.StatusBadRequest, "Item ID is required")
		return
	}

	if err := h.store.Remove(itemID); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			h.respondError(w, http.StatusNotFound, ErrItemNotFound.Error())
			return
		}
		h.respondError(w, http.StatusBadGateway, h.store.State().Error)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   h.store.State(),
	})
}

func (h *Handler) ClearCart(w http.ResponseWriter, _ *http.Request) {
	if err := h.store.Clear(); err != nil {
		h.respondError(w, http.StatusBadGateway, h.store.State().Error)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Cart cleared",
	})
}
