// Package catalog exposes the backend's product listing to the shell.
package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dukahub/storefront/internal/api"
)

type Handler struct {
	client       api.Client
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewHandler(
	client api.Client,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *Handler {
	return &Handler{client: client, respondJSON: respondJSON, respondError: respondError}
}

// GetProducts passes the catalog filters through to the backend listing.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := api.ProductParams{
		Category: query.Get("category"),
		Search:   query.Get("search"),
		Ordering: query.Get("ordering"),
	}
	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		params.Page = page
	}

	page, err := h.client.GetProducts(params)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Status > 0 {
			h.respondError(w, apiErr.Status, apiErr.Error())
			return
		}
		h.respondError(w, http.StatusBadGateway, "Failed to fetch products")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   page,
	})
}
