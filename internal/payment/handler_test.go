package payment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukahub/storefront/internal/api"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

func newPaymentHandler(client *api.MockClient) *Handler {
	return NewHandler(NewOperations(client, Callbacks{}), respondJSON, respondError)
}

func TestCreatePaymentHandler_Success(t *testing.T) {
	client := &api.MockClient{
		CreatePaymentFunc: func(data api.CardPaymentData) (*api.Payment, error) {
			return &api.Payment{ID: "pay-1", Status: "pending", Amount: 49.99}, nil
		},
	}
	handler := newPaymentHandler(client)

	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(`{"order":"order-1"}`))
	w := httptest.NewRecorder()
	handler.CreatePayment(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "success", response["status"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "pay-1", data["id"])
}

func TestCreatePaymentHandler_BackendStatusAndMessage(t *testing.T) {
	client := &api.MockClient{
		CreatePaymentFunc: func(data api.CardPaymentData) (*api.Payment, error) {
			return nil, &api.APIError{Status: 402, Message: "Card declined"}
		},
	}
	handler := newPaymentHandler(client)

	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(`{"order":"order-1"}`))
	w := httptest.NewRecorder()
	handler.CreatePayment(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusPaymentRequired, res.StatusCode)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "Card declined", response["message"])
}

func TestCreatePaymentHandler_MissingOrder(t *testing.T) {
	handler := newPaymentHandler(&api.MockClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	handler.CreatePayment(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestInitiateMpesaHandler_ValidatesPhoneAndAmount(t *testing.T) {
	handler := newPaymentHandler(&api.MockClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/payments/mpesa",
		strings.NewReader(`{"phone_number":"","amount":100}`))
	w := httptest.NewRecorder()
	handler.InitiateMpesaPayment(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestGetPaymentMethodsHandler_Success(t *testing.T) {
	client := &api.MockClient{
		GetPaymentMethodsFunc: func() ([]api.PaymentMethod, error) {
			return []api.PaymentMethod{
				{ID: "pm-1", Type: "card", Brand: "visa", LastFour: "4242"},
				{ID: "pm-2", Type: "mpesa", MpesaPhone: "254712345678"},
			}, nil
		},
	}
	handler := newPaymentHandler(client)

	req := httptest.NewRequest(http.MethodGet, "/api/payments/methods", nil)
	w := httptest.NewRecorder()
	handler.GetPaymentMethods(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	methods, ok := response["methods"].([]interface{})
	assert.True(t, ok, "Expected 'methods' to be an array in the response")
	assert.Len(t, methods, 2)
}

func TestGetPaymentHistoryHandler_ParsesPagination(t *testing.T) {
	var got api.HistoryParams
	client := &api.MockClient{
		GetPaymentHistoryFunc: func(params api.HistoryParams) (*api.PaymentHistory, error) {
			got = params
			return &api.PaymentHistory{Count: 0}, nil
		},
	}
	handler := newPaymentHandler(client)

	req := httptest.NewRequest(http.MethodGet, "/api/payments/history?page=3&limit=20", nil)
	w := httptest.NewRecorder()
	handler.GetPaymentHistory(w, req)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	assert.Equal(t, 3, got.Page)
	assert.Equal(t, 20, got.Limit)
}

func TestCreatePaymentMethodHandler_CardRequiresDetails(t *testing.T) {
	handler := newPaymentHandler(&api.MockClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/payments/methods",
		strings.NewReader(`{"type":"card"}`))
	w := httptest.NewRecorder()
	handler.CreatePaymentMethod(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "Card details are required", response["message"])
}
