package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dukahub/storefront/internal/api"
)

type Handler struct {
	ops          *Operations
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewHandler(
	ops *Operations,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *Handler {
	return &Handler{ops: ops, respondJSON: respondJSON, respondError: respondError}
}

func (h *Handler) failureStatus(err error) int {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Status > 0 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var data api.CardPaymentData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data.Order == "" {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.ops.CreatePayment(data)
	if err != nil {
		h.respondError(w, h.failureStatus(err), h.ops.Err())
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "success",
		"data":   p,
	})
}

func (h *Handler) InitiateMpesaPayment(w http.ResponseWriter, r *http.Request) {
	var data api.MpesaPaymentData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data.PhoneNumber == "" || data.Amount <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.ops.InitiateMpesaPayment(data)
	if err != nil {
		h.respondError(w, h.failureStatus(err), h.ops.Err())
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "success",
		"data":   p,
	})
}

func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := r.PathValue("paymentID")
	var req struct {
		PaymentIntent string `json:"payment_intent"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if paymentID == "" {
		h.respondError(w, http.StatusBadRequest, "Payment ID is required")
		return
	}

	p, err := h.ops.ConfirmPayment(paymentID, req.PaymentIntent)
	if err != nil {
		h.respondError(w, h.failureStatus(err), h.ops.Err())
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   p,
	})
}

func (h *Handler) GetPaymentMethods(w http.ResponseWriter, _ *http.Request) {
	methods, err := h.ops.GetPaymentMethods()
	if err != nil {
		h.respondError(w, h.failureStatus(err), h.ops.Err())
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"methods": methods,
	})
}

func (h *Handler) CreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	var data api.PaymentMethodData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data.Type == "" {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if data.Type == "card" && data.Card == nil {
		h.respondError(w, http.StatusBadRequest, "Card details are required")
		return
	}

	m, err := h.ops.CreatePaymentMethod(data)
	if err != nil {
		h.respondError(w, h.failureStatus(err), h.ops.Err())
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "success",
		"data":   m,
	})
}

func (h *Handler) DeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	paymentMethodID := r.PathValue("paymentMethodID")
	if paymentMethodID == "" {
		h.respondError(w, http.StatusBadRequest, "Payment method ID is required")
		return
	}

	if err := h.ops.DeletePaymentMethod(paymentMethodID); err != nil {
		h.respondError(w, h.failureStatus(err), h.ops.Err())
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Payment method deleted successfully",
	})
}

func (h *Handler) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderID")
	if orderID == "" {
		h.respondError(w, http.StatusBadRequest, "Order ID is required")
		return
	}

	s, err := h.ops.GetPaymentStatus(orderID)
	if err != nil {
		h.respondError(w, h.failureStatus(err), h.ops.Err())
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   s,
	})
}

func (h *Handler) GetPaymentHistory(w http.ResponseWriter, r *http.Request) {
	params := api.HistoryParams{}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		params.Limit = limit
	}

	history, err := h.ops.GetPaymentHistory(params)
	if err != nil {
		h.respondError(w, h.failureStatus(err), h.ops.Err())
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   history,
	})
}

func (h *Handler) CreateRefund(w http.ResponseWriter, r *http.Request) {
	var data api.RefundData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data.Order == "" || data.Amount <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	refund, err := h.ops.CreateRefund(data)
	if err != nil {
		h.respondError(w, h.failureStatus(err), h.ops.Err())
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "success",
		"data":   refund,
	})
}
