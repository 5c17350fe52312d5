// Package payment wraps the backend's payment endpoints with the loading and
// error state the checkout UI renders.
package payment

import (
	"errors"
	"sync"

	"github.com/dukahub/storefront/internal/api"
)

// Callbacks are invoked in addition to the returned values; both are
// optional.
type Callbacks struct {
	OnSuccess func(result interface{})
	OnError   func(message string)
}

// Operations tracks one shared loading/error slot across all calls. Two
// concurrent operations clobber each other's flags (last write wins); that
// is the documented contract for this single-operation-at-a-time UI layer,
// not a bug. The loading flag is reset on every exit path.
type Operations struct {
	client    api.Client
	callbacks Callbacks

	mu      sync.RWMutex
	loading bool
	err     string
}

func NewOperations(client api.Client, callbacks Callbacks) *Operations {
	return &Operations{client: client, callbacks: callbacks}
}

func (o *Operations) Loading() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.loading
}

func (o *Operations) Err() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.err
}

func (o *Operations) ClearError() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = ""
}

func (o *Operations) begin() {
	o.mu.Lock()
	o.loading = true
	o.err = ""
	o.mu.Unlock()
}

func (o *Operations) end() {
	o.mu.Lock()
	o.loading = false
	o.mu.Unlock()
}

// fail stores a display message for err, preferring one carried by the
// backend over the operation's fixed fallback, and returns err unchanged so
// the caller's workflow can halt.
func (o *Operations) fail(err error, fallback string) error {
	message := fallback
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		message = apiErr.Message
	}
	o.mu.Lock()
	o.err = message
	o.mu.Unlock()
	if o.callbacks.OnError != nil {
		o.callbacks.OnError(message)
	}
	return err
}

func (o *Operations) succeed(result interface{}) {
	if o.callbacks.OnSuccess != nil {
		o.callbacks.OnSuccess(result)
	}
}

func (o *Operations) CreatePayment(data api.CardPaymentData) (*api.Payment, error) {
	o.begin()
	defer o.end()

	p, err := o.client.CreatePayment(data)
	if err != nil {
		return nil, o.fail(err, "Payment creation failed")
	}
	o.succeed(p)
	return p, nil
}

func (o *Operations) InitiateMpesaPayment(data api.MpesaPaymentData) (*api.Payment, error) {
	o.begin()
	defer o.end()

	p, err := o.client.InitiateMpesaPayment(data)
	if err != nil {
		return nil, o.fail(err, "M-Pesa payment initiation failed")
	}
	o.succeed(p)
	return p, nil
}

func (o *Operations) ConfirmPayment(paymentID, paymentIntent string) (*api.Payment, error) {
	o.begin()
	defer o.end()

	p, err := o.client.ConfirmPayment(paymentID, paymentIntent)
	if err != nil {
		return nil, o.fail(err, "Payment confirmation failed")
	}
	o.succeed(p)
	return p, nil
}

func (o *Operations) GetPaymentMethods() ([]api.PaymentMethod, error) {
	o.begin()
	defer o.end()

	methods, err := o.client.GetPaymentMethods()
	if err != nil {
		return nil, o.fail(err, "Failed to fetch payment methods")
	}
	return methods, nil
}

func (o *Operations) CreatePaymentMethod(data api.PaymentMethodData) (*api.PaymentMethod, error) {
	o.begin()
	defer o.end()

	m, err := o.client.CreatePaymentMethod(data)
	if err != nil {
		return nil, o.fail(err, "Failed to create payment method")
	}
	return m, nil
}

func (o *Operations) DeletePaymentMethod(paymentMethodID string) error {
	o.begin()
	defer o.end()

	if err := o.client.DeletePaymentMethod(paymentMethodID); err != nil {
		return o.fail(err, "Failed to delete payment method")
	}
	o.succeed(map[string]string{"message": "Payment method deleted successfully"})
	return nil
}

func (o *Operations) GetPaymentStatus(orderID string) (*api.PaymentStatus, error) {
	o.begin()
	defer o.end()

	s, err := o.client.GetPaymentStatus(orderID)
	if err != nil {
		return nil, o.fail(err, "Failed to fetch payment status")
	}
	return s, nil
}

func (o *Operations) GetPaymentHistory(params api.HistoryParams) (*api.PaymentHistory, error) {
	o.begin()
	defer o.end()

	h, err := o.client.GetPaymentHistory(params)
	if err != nil {
		return nil, o.fail(err, "Failed to fetch payment history")
	}
	return h, nil
}

func (o *Operations) CreateRefund(data api.RefundData) (*api.Refund, error) {
	o.begin()
	defer o.end()

	r, err := o.client.CreateRefund(data)
	if err != nil {
		return nil, o.fail(err, "Refund creation failed")
	}
	o.succeed(r)
	return r, nil
}
