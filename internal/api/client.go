package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is the boundary to the external commerce backend. Every method
// either returns the decoded success payload or an error; errors coming from
// the backend carry its message as *APIError.
type Client interface {
	Login(email, password string) (*AuthResponse, error)
	Register(req RegisterRequest) (*AuthResponse, error)
	Logout(refreshToken string) error
	GetProfile() (*User, error)
	RequestPasswordReset(email string) error
	ResetPassword(uid, token, newPassword, confirmPassword string) error

	CreatePayment(data CardPaymentData) (*Payment, error)
	InitiateMpesaPayment(data MpesaPaymentData) (*Payment, error)
	ConfirmPayment(paymentID, paymentIntent string) (*Payment, error)
	GetPaymentMethods() ([]PaymentMethod, error)
	CreatePaymentMethod(data PaymentMethodData) (*PaymentMethod, error)
	DeletePaymentMethod(paymentMethodID string) error
	GetPaymentStatus(orderID string) (*PaymentStatus, error)
	GetPaymentHistory(params HistoryParams) (*PaymentHistory, error)
	CreateRefund(data RefundData) (*Refund, error)

	GetProducts(params ProductParams) (*ProductPage, error)
	GetCart() (*CartPayload, error)
	AddCartItem(req AddCartItemRequest) error
	UpdateCartItem(itemID string, quantity int) error
	RemoveCartItem(itemID string) error
	ClearCart() error
	CreateOrder(req OrderRequest) (*Order, error)
}

// APIError is a failure reported by the backend with an HTTP status and,
// when the response body carried one, a human-readable message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API Error: %d %s", e.Status, http.StatusText(e.Status))
}

// TokenSource supplies the current access token. An empty string means
// unauthenticated; authenticated endpoints fail without a network call.
type TokenSource func() string

type HTTPClient struct {
	baseURL    string
	token      TokenSource
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, token TokenSource) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

var ErrNoAuthToken = fmt.Errorf("no authentication token found")

func (c *HTTPClient) do(method, path string, body, out interface{}, authenticated bool) error {
	var buf *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewBuffer(b)
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		token := c.token()
		if token == "" {
			return ErrNoAuthToken
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Message string `json:"message"`
			Detail  string `json:"detail"`
			Err     string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		msg := errBody.Message
		if msg == "" {
			msg = errBody.Detail
		}
		if msg == "" {
			msg = errBody.Err
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) Login(email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := c.do(http.MethodPost, "/auth/login/", body, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Register(req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(http.MethodPost, "/auth/register/", req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Logout(refreshToken string) error {
	body := map[string]string{"refresh": refreshToken}
	return c.do(http.MethodPost, "/auth/logout/", body, nil, true)
}

func (c *HTTPClient) GetProfile() (*User, error) {
	var u User
	if err := c.do(http.MethodGet, "/users/me/", nil, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) RequestPasswordReset(email string) error {
	body := map[string]string{"email": email}
	return c.do(http.MethodPost, "/auth/password/reset/", body, nil, false)
}

func (c *HTTPClient) ResetPassword(uid, token, newPassword, confirmPassword string) error {
	body := map[string]string{
		"uid":             uid,
		"token":           token,
		"new_password":    newPassword,
		"re_new_password": confirmPassword,
	}
	return c.do(http.MethodPost, "/auth/password/reset/confirm/", body, nil, false)
}

func (c *HTTPClient) CreatePayment(data CardPaymentData) (*Payment, error) {
	var p Payment
	if err := c.do(http.MethodPost, "/payments/create/", data, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) InitiateMpesaPayment(data MpesaPaymentData) (*Payment, error) {
	var p Payment
	if err := c.do(http.MethodPost, "/payments/mpesa/initiate/", data, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) ConfirmPayment(paymentID, paymentIntent string) (*Payment, error) {
	body := map[string]string{}
	if paymentIntent != "" {
		body["payment_intent"] = paymentIntent
	}
	var p Payment
	if err := c.do(http.MethodPost, "/payments/"+paymentID+"/confirm/", body, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) GetPaymentMethods() ([]PaymentMethod, error) {
	var methods []PaymentMethod
	if err := c.do(http.MethodGet, "/payments/methods/", nil, &methods, true); err != nil {
		return nil, err
	}
	return methods, nil
}

func (c *HTTPClient) CreatePaymentMethod(data PaymentMethodData) (*PaymentMethod, error) {
	var m PaymentMethod
	if err := c.do(http.MethodPost, "/payments/methods/", data, &m, true); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *HTTPClient) DeletePaymentMethod(paymentMethodID string) error {
	return c.do(http.MethodDelete, "/payments/methods/"+paymentMethodID+"/", nil, nil, true)
}

func (c *HTTPClient) GetPaymentStatus(orderID string) (*PaymentStatus, error) {
	var s PaymentStatus
	if err := c.do(http.MethodGet, "/payments/status/"+orderID+"/", nil, &s, true); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) GetPaymentHistory(params HistoryParams) (*PaymentHistory, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	var h PaymentHistory
	if err := c.do(http.MethodGet, "/payments/history/?"+query.Encode(), nil, &h, true); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *HTTPClient) CreateRefund(data RefundData) (*Refund, error) {
	var r Refund
	if err := c.do(http.MethodPost, "/payments/refunds/", data, &r, true); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) GetProducts(params ProductParams) (*ProductPage, error) {
	query := url.Values{}
	if params.Category != "" {
		query.Set("category", params.Category)
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Ordering != "" {
		query.Set("ordering", params.Ordering)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	var page ProductPage
	if err := c.do(http.MethodGet, "/products/?"+query.Encode(), nil, &page, false); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) GetCart() (*CartPayload, error) {
	var cart CartPayload
	if err := c.do(http.MethodGet, "/cart/", nil, &cart, true); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *HTTPClient) AddCartItem(req AddCartItemRequest) error {
	return c.do(http.MethodPost, "/cart/items/", req, nil, true)
}

func (c *HTTPClient) UpdateCartItem(itemID string, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return c.do(http.MethodPatch, "/cart/items/"+itemID+"/", body, nil, true)
}

func (c *HTTPClient) RemoveCartItem(itemID string) error {
	return c.do(http.MethodDelete, "/cart/items/"+itemID+"/", nil, nil, true)
}

func (c *HTTPClient) ClearCart() error {
	return c.do(http.MethodDelete, "/cart/", nil, nil, true)
}

func (c *HTTPClient) CreateOrder(req OrderRequest) (*Order, error) {
	var o Order
	if err := c.do(http.MethodPost, "/orders/checkout/", req, &o, true); err != nil {
		return nil, err
	}
	return &o, nil
}
