package api

// User is the commerce backend's user record as returned by /users/me/.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone,omitempty"`
	IsActive      bool   `json:"is_active"`
	IsStaff       bool   `json:"is_staff"`
	IsSuperuser   bool   `json:"is_superuser"`
	DateJoined    string `json:"date_joined"`
	EmailVerified bool   `json:"email_verified,omitempty"`
}

type AuthResponse struct {
	User    User   `json:"user"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Phone           string `json:"phone,omitempty"`
}

// CardPaymentData starts a card payment against an existing order.
type CardPaymentData struct {
	Order             string `json:"order"`
	PaymentMethod     string `json:"payment_method,omitempty"`
	SavePaymentMethod bool   `json:"save_payment_method,omitempty"`
}

// MpesaPaymentData starts an M-Pesa STK push. PhoneNumber uses the
// 254XXXXXXXXX format.
type MpesaPaymentData struct {
	PhoneNumber string  `json:"phone_number"`
	Amount      float64 `json:"amount"`
	Order       string  `json:"order,omitempty"`
}

type CardDetails struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
	CVC      string `json:"cvc"`
	Name     string `json:"name"`
}

// PaymentMethodData registers a new saved payment method for the user.
// Type is one of "card", "mpesa" or "paypal"; Card is required for card.
type PaymentMethodData struct {
	Type      string       `json:"type"`
	Card      *CardDetails `json:"card,omitempty"`
	IsDefault bool         `json:"is_default,omitempty"`
}

type RefundData struct {
	Order  string  `json:"order"`
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

type HistoryParams struct {
	Page  int
	Limit int
}

type Payment struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	PaymentMethod string  `json:"payment_method"`
	// M-Pesa specific identifier, empty for other rails.
	MpesaCheckoutRequestID string `json:"mpesa_checkout_request_id,omitempty"`
	CreatedAt              string `json:"created_at"`
}

type PaymentMethod struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Provider    string `json:"provider"`
	IsDefault   bool   `json:"is_default"`
	LastFour    string `json:"last_four,omitempty"`
	ExpiryMonth int    `json:"expiry_month,omitempty"`
	ExpiryYear  int    `json:"expiry_year,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Name        string `json:"name,omitempty"`
	MpesaPhone  string `json:"mpesa_phone,omitempty"`
}

type PaymentStatus struct {
	Order  string `json:"order"`
	Status string `json:"status"`
}

type PaymentHistory struct {
	Count    int       `json:"count"`
	Next     string    `json:"next,omitempty"`
	Previous string    `json:"previous,omitempty"`
	Results  []Payment `json:"results"`
}

type Refund struct {
	ID     string  `json:"id"`
	Order  string  `json:"order"`
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
	Status string  `json:"status"`
}

type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	InStock  bool    `json:"in_stock"`
	Featured bool    `json:"featured,omitempty"`
}

type ProductParams struct {
	Category string
	Search   string
	Ordering string
	Page     int
}

type ProductPage struct {
	Count   int       `json:"count"`
	Results []Product `json:"results"`
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"product_name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type Order struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"order_number"`
	Total       float64     `json:"total"`
	Status      string      `json:"status"`
	Items       []OrderItem `json:"items"`
}

// OrderRequest is the checkout payload accepted by /orders/checkout/.
type OrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
	BillingAddress  string `json:"billing_address"`
	PaymentMethod   string `json:"payment_method,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

type CartItemPayload struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"image_url,omitempty"`
}

type CartPayload struct {
	Items []CartItemPayload `json:"items"`
	Total float64           `json:"total"`
}

type AddCartItemRequest struct {
	Product  string `json:"product"`
	Variant  string `json:"variant,omitempty"`
	Quantity int    `json:"quantity"`
}
