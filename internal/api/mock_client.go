package api

import "errors"

// MockClient is a hand-rolled test double for Client. Each method delegates
// to the matching func field when set and otherwise reports an unexpected
// call, so tests only stub what they exercise.
type MockClient struct {
	LoginFunc                func(email, password string) (*AuthResponse, error)
	RegisterFunc             func(req RegisterRequest) (*AuthResponse, error)
	LogoutFunc               func(refreshToken string) error
	GetProfileFunc           func() (*User, error)
	RequestPasswordResetFunc func(email string) error
	ResetPasswordFunc        func(uid, token, newPassword, confirmPassword string) error

	CreatePaymentFunc        func(data CardPaymentData) (*Payment, error)
	InitiateMpesaPaymentFunc func(data MpesaPaymentData) (*Payment, error)
	ConfirmPaymentFunc       func(paymentID, paymentIntent string) (*Payment, error)
	GetPaymentMethodsFunc    func() ([]PaymentMethod, error)
	CreatePaymentMethodFunc  func(data PaymentMethodData) (*PaymentMethod, error)
	DeletePaymentMethodFunc  func(paymentMethodID string) error
	GetPaymentStatusFunc     func(orderID string) (*PaymentStatus, error)
	GetPaymentHistoryFunc    func(params HistoryParams) (*PaymentHistory, error)
	CreateRefundFunc         func(data RefundData) (*Refund, error)

	GetProductsFunc    func(params ProductParams) (*ProductPage, error)
	GetCartFunc        func() (*CartPayload, error)
	AddCartItemFunc    func(req AddCartItemRequest) error
	UpdateCartItemFunc func(itemID string, quantity int) error
	RemoveCartItemFunc func(itemID string) error
	ClearCartFunc      func() error
	CreateOrderFunc    func(req OrderRequest) (*Order, error)
}

var errUnexpectedCall = errors.New("unexpected API call")

func (m *MockClient) Login(email, password string) (*AuthResponse, error) {
	if m.LoginFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.LoginFunc(email, password)
}

func (m *MockClient) Register(req RegisterRequest) (*AuthResponse, error) {
	if m.RegisterFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.RegisterFunc(req)
}

func (m *MockClient) Logout(refreshToken string) error {
	if m.LogoutFunc == nil {
		return errUnexpectedCall
	}
	return m.LogoutFunc(refreshToken)
}

func (m *MockClient) GetProfile() (*User, error) {
	if m.GetProfileFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.GetProfileFunc()
}

func (m *MockClient) RequestPasswordReset(email string) error {
	if m.RequestPasswordResetFunc == nil {
		return errUnexpectedCall
	}
	return m.RequestPasswordResetFunc(email)
}

func (m *MockClient) ResetPassword(uid, token, newPassword, confirmPassword string) error {
	if m.ResetPasswordFunc == nil {
		return errUnexpectedCall
	}
	return m.ResetPasswordFunc(uid, token, newPassword, confirmPassword)
}

func (m *MockClient) CreatePayment(data CardPaymentData) (*Payment, error) {
	if m.CreatePaymentFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.CreatePaymentFunc(data)
}

func (m *MockClient) InitiateMpesaPayment(data MpesaPaymentData) (*Payment, error) {
	if m.InitiateMpesaPaymentFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.InitiateMpesaPaymentFunc(data)
}

func (m *MockClient) ConfirmPayment(paymentID, paymentIntent string) (*Payment, error) {
	if m.ConfirmPaymentFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.ConfirmPaymentFunc(paymentID, paymentIntent)
}

func (m *MockClient) GetPaymentMethods() ([]PaymentMethod, error) {
	if m.GetPaymentMethodsFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.GetPaymentMethodsFunc()
}

func (m *MockClient) CreatePaymentMethod(data PaymentMethodData) (*PaymentMethod, error) {
	if m.CreatePaymentMethodFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.CreatePaymentMethodFunc(data)
}

func (m *MockClient) DeletePaymentMethod(paymentMethodID string) error {
	if m.DeletePaymentMethodFunc == nil {
		return errUnexpectedCall
	}
	return m.DeletePaymentMethodFunc(paymentMethodID)
}

func (m *MockClient) GetPaymentStatus(orderID string) (*PaymentStatus, error) {
	if m.GetPaymentStatusFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.GetPaymentStatusFunc(orderID)
}

func (m *MockClient) GetPaymentHistory(params HistoryParams) (*PaymentHistory, error) {
	if m.GetPaymentHistoryFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.GetPaymentHistoryFunc(params)
}

func (m *MockClient) CreateRefund(data RefundData) (*Refund, error) {
	if m.CreateRefundFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.CreateRefundFunc(data)
}

func (m *MockClient) GetProducts(params ProductParams) (*ProductPage, error) {
	if m.GetProductsFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.GetProductsFunc(params)
}

func (m *MockClient) GetCart() (*CartPayload, error) {
	if m.GetCartFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.GetCartFunc()
}

func (m *MockClient) AddCartItem(req AddCartItemRequest) error {
	if m.AddCartItemFunc == nil {
		return errUnexpectedCall
	}
	return m.AddCartItemFunc(req)
}

func (m *MockClient) UpdateCartItem(itemID string, quantity int) error {
	if m.UpdateCartItemFunc == nil {
		return errUnexpectedCall
	}
	return m.UpdateCartItemFunc(itemID, quantity)
}

func (m *MockClient) RemoveCartItem(itemID string) error {
	if m.RemoveCartItemFunc == nil {
		return errUnexpectedCall
	}
	return m.RemoveCartItemFunc(itemID)
}

func (m *MockClient) ClearCart() error {
	if m.ClearCartFunc == nil {
		return errUnexpectedCall
	}
	return m.ClearCartFunc()
}

func (m *MockClient) CreateOrder(req OrderRequest) (*Order, error) {
	if m.CreateOrderFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.CreateOrderFunc(req)
}
