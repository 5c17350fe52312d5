// Package checkout sequences the four-step purchase wizard over the cart.
// The orchestrator only sequences; step payloads are validated by the forms
// that produce them.
package checkout

import (
	"errors"
	"sync"

	"github.com/dukahub/storefront/internal/api"
	"github.com/dukahub/storefront/internal/cart"
	"github.com/dukahub/storefront/internal/payment"
	"github.com/google/uuid"
)

type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepReview
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "Shipping"
	case StepPayment:
		return "Payment"
	case StepReview:
		return "Review"
	case StepConfirmation:
		return "Confirmation"
	default:
		return "Unknown"
	}
}

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidRetreat   = errors.New("cannot go back from this step")
	ErrNotAtReview      = errors.New("submission is only allowed at the review step")
	ErrAlreadySubmitted = errors.New("order draft already submitted")
	ErrCheckoutComplete = errors.New("checkout is complete")
)

// Draft accumulates step payloads until submission, after which it is
// immutable.
type Draft struct {
	ID     string
	Fields map[string]interface{}
	Order  *api.Order
}

// Orchestrator is the linear Shipping → Payment → Review → Confirmation
// machine. Confirmation is terminal and clears the cart exactly once.
type Orchestrator struct {
	client   api.Client
	payments *payment.Operations
	cart     *cart.Store

	mu        sync.Mutex
	step      Step
	draft     Draft
	submitted bool
	completed bool
}

func NewOrchestrator(client api.Client, payments *payment.Operations, cartStore *cart.Store) *Orchestrator {
	return &Orchestrator{
		client:   client,
		payments: payments,
		cart:     cartStore,
		step:     StepShipping,
		draft: Draft{
			ID:     uuid.NewString(),
			Fields: make(map[string]interface{}),
		},
	}
}

func (o *Orchestrator) Step() Step {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.step
}

// Draft returns a copy of the accumulated order draft.
func (o *Orchestrator) Draft() Draft {
	o.mu.Lock()
	defer o.mu.Unlock()

	fields := make(map[string]interface{}, len(o.draft.Fields))
	for k, v := range o.draft.Fields {
		fields[k] = v
	}
	return Draft{ID: o.draft.ID, Fields: fields, Order: o.draft.Order}
}

// Renderable reports whether the wizard may be shown: an empty cart refuses
// every step except the terminal confirmation, which must still render after
// the completion path has cleared the cart.
func (o *Orchestrator) Renderable() error {
	o.mu.Lock()
	step := o.step
	o.mu.Unlock()

	if step != StepConfirmation && o.cart.Empty() {
		return ErrEmptyCart
	}
	return nil
}

// Advance merges stepData into the draft and moves one step forward. The
// review step commits through Submit instead.
func (o *Orchestrator) Advance(stepData map[string]interface{}) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.step {
	case StepShipping, StepPayment:
		for k, v := range stepData {
			o.draft.Fields[k] = v
		}
		o.step++
		return nil
	case StepReview:
		return ErrNotAtReview
	default:
		return ErrCheckoutComplete
	}
}

// Retreat moves one step back; only the payment and review steps allow it.
func (o *Orchestrator) Retreat() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.step {
	case StepPayment, StepReview:
		o.step--
		return nil
	case StepConfirmation:
		return ErrCheckoutComplete
	default:
		return ErrInvalidRetreat
	}
}

func (o *Orchestrator) fieldString(key string) string {
	if v, ok := o.draft.Fields[key].(string); ok {
		return v
	}
	return ""
}

func (o *Orchestrator) fieldBool(key string) bool {
	v, _ := o.draft.Fields[key].(bool)
	return v
}

// Submit is the commit point at the review step: create the order, run the
// payment for the selected rail, and on success enter the terminal
// confirmation step, clearing the cart exactly once. Any failure leaves the
// wizard at review with the draft still editable.
func (o *Orchestrator) Submit() (*api.Order, *api.Payment, error) {
	o.mu.Lock()
	if o.step != StepReview {
		step := o.step
		o.mu.Unlock()
		if step == StepConfirmation {
			return nil, nil, ErrCheckoutComplete
		}
		return nil, nil, ErrNotAtReview
	}
	if o.submitted {
		o.mu.Unlock()
		return nil, nil, ErrAlreadySubmitted
	}
	orderReq := api.OrderRequest{
		ShippingAddress: o.fieldString("shipping_address"),
		BillingAddress:  o.fieldString("billing_address"),
		PaymentMethod:   o.fieldString("payment_method"),
		Notes:           o.fieldString("notes"),
	}
	rail := o.fieldString("rail")
	phone := o.fieldString("phone_number")
	save := o.fieldBool("save_payment_method")
	o.mu.Unlock()

	order, err := o.client.CreateOrder(orderReq)
	if err != nil {
		return nil, nil, err
	}

	var pay *api.Payment
	switch rail {
	case "mpesa":
		pay, err = o.payments.InitiateMpesaPayment(api.MpesaPaymentData{
			PhoneNumber: phone,
			Amount:      order.Total,
			Order:       order.ID,
		})
		if err != nil {
			return nil, nil, err
		}
	default:
		pay, err = o.payments.CreatePayment(api.CardPaymentData{
			Order:             order.ID,
			PaymentMethod:     orderReq.PaymentMethod,
			SavePaymentMethod: save,
		})
		if err != nil {
			return nil, nil, err
		}
		if _, err = o.payments.ConfirmPayment(pay.ID, ""); err != nil {
			return nil, nil, err
		}
	}

	o.mu.Lock()
	o.draft.Order = order
	o.submitted = true
	o.step = StepConfirmation
	alreadyCompleted := o.completed
	o.completed = true
	o.mu.Unlock()

	if !alreadyCompleted {
		o.cart.Reset()
	}
	return order, pay, nil
}
