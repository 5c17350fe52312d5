package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Handler struct {
	orchestrator *Orchestrator
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewHandler(
	orchestrator *Orchestrator,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *Handler {
	return &Handler{orchestrator: orchestrator, respondJSON: respondJSON, respondError: respondError}
}

func (h *Handler) state() map[string]interface{} {
	draft := h.orchestrator.Draft()
	return map[string]interface{}{
		"step":      int(h.orchestrator.Step()),
		"step_name": h.orchestrator.Step().String(),
		"draft":     draft.Fields,
		"order":     draft.Order,
	}
}

// GetCheckout reports the wizard state, or the empty-cart notice when the
// wizard refuses to render.
func (h *Handler) GetCheckout(w http.ResponseWriter, _ *http.Request) {
	if err := h.orchestrator.Renderable(); err != nil {
		h.respondJSON(w, http.StatusConflict, map[string]string{
			"status":  "empty_cart",
			"message": "Your cart is empty",
		})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   h.state(),
	})
}

func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	var stepData map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&stepData); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.orchestrator.Renderable(); err != nil {
		h.respondError(w, http.StatusConflict, ErrEmptyCart.Error())
		return
	}

	if err := h.orchestrator.Advance(stepData); err != nil {
		h.respondError(w, http.StatusConflict, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   h.state(),
	})
}

func (h *Handler) Retreat(w http.ResponseWriter, _ *http.Request) {
	if err := h.orchestrator.Retreat(); err != nil {
		h.respondError(w, http.StatusConflict, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   h.state(),
	})
}

func (h *Handler) Submit(w http.ResponseWriter, _ *http.Request) {
	order, pay, err := h.orchestrator.Submit()
	if err != nil {
		switch {
		case errors.Is(err, ErrNotAtReview), errors.Is(err, ErrAlreadySubmitted), errors.Is(err, ErrCheckoutComplete):
			h.respondError(w, http.StatusConflict, err.Error())
		default:
			// Payment or order failure: progression halts at review.
			h.respondError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"order":   order,
			"payment": pay,
		},
	})
}
