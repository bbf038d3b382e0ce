package client

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == "admin"
}

type Product struct {
	ID            string   `json:"id"`
	Brand         string   `json:"brand"`
	Model         string   `json:"model"`
	Description   string   `json:"description"`
	Price         int64    `json:"price"`
	StockQuantity int      `json:"stock_quantity"`
	Category      []string `json:"category"`
	ImageURL      string   `json:"image_url"`
	CaseSize      string   `json:"case_size"`
	StarReview    float64  `json:"star_review"`
}

// CartItem is a cart line. Available is false once the product left the catalog;
// such lines must be removed before checkout.
type CartItem struct {
	ID        string   `json:"id"`
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
	Available bool     `json:"available"`
}

// Summary is the price breakdown of a cart in whole currency units.
type Summary struct {
	Subtotal     int64           `json:"subtotal"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	Discount     int64           `json:"discount"`
	DeliveryFee  int64           `json:"delivery_fee"`
	Total        int64           `json:"total"`
	PromoCode    string          `json:"promo_code,omitempty"`

	UnavailableItems int `json:"unavailable_items,omitempty"`
}

type Cart struct {
	ID      string     `json:"id"`
	Items   []CartItem `json:"items"`
	Summary Summary    `json:"summary"`
}

// ItemCount is the number of units across all lines.
func (c Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// PromoQuote is a valid promo code priced against the current cart.
type PromoQuote struct {
	Code         string          `json:"code"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	Summary      Summary         `json:"summary"`
}

type Address struct {
	ID        string `json:"id"`
	Address   string `json:"address"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	IsDefault bool   `json:"is_default"`
}

type OrderItem struct {
	ProductID string `json:"product_id"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

type Order struct {
	ID                string      `json:"id"`
	ShippingAddressID string      `json:"shipping_address_id"`
	BillingAddressID  string      `json:"billing_address_id"`
	PaymentMethod     string      `json:"payment_method"`
	PromoCode         string      `json:"promo_code"`
	Subtotal          int64       `json:"subtotal"`
	Discount          int64       `json:"discount"`
	DeliveryFee       int64       `json:"delivery_fee"`
	TotalAmount       int64       `json:"total_amount"`
	Status            string      `json:"status"`
	Items             []OrderItem `json:"items"`
	CreatedAt         time.Time   `json:"created_at"`
}

type Review struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type ProfileInput struct {
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type AddressInput struct {
	Address string `json:"address"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

// NewAddress selects creating the checkout address from the inline fields.
const NewAddress = "new"

// CheckoutInput places an order. AddressID is an existing address or NewAddress.
type CheckoutInput struct {
	AddressID        string `json:"address_id"`
	Address          string `json:"address,omitempty"`
	State            string `json:"state,omitempty"`
	Zip              string `json:"zip,omitempty"`
	BillingAddressID string `json:"billing_address_id,omitempty"`
	PaymentMethod    string `json:"payment_method,omitempty"`
	PromoCode        string `json:"promo_code,omitempty"`
}

// ProductQuery filters the catalog. Zero values match everything.
type ProductQuery struct {
	Query    string
	Category string
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
