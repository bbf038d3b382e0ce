package models

import "time"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderStatuses lists every known status in fulfilment order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
}

// PaymentMethod is recorded on the order but never charged.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentCard           PaymentMethod = "card"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
)

// OrderItem is a price-frozen line of an order.
type OrderItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string    `json:"order_id" gorm:"type:varchar(36);not null;index"`
	ProductID string    `json:"product_id" gorm:"type:varchar(64);not null"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Price     int64     `json:"price" gorm:"not null"` // Price at the time of order
	CreatedAt time.Time `json:"created_at"`
}

// Order represents a placed customer order. Only Status changes after creation.
type Order struct {
	ID                string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID            string        `json:"user_id" gorm:"type:varchar(36);not null;index"`
	ShippingAddressID string        `json:"shipping_address_id" gorm:"type:varchar(36);not null"`
	BillingAddressID  string        `json:"billing_address_id" gorm:"type:varchar(36);not null"`
	PaymentMethod     PaymentMethod `json:"payment_method" gorm:"type:varchar(32);not null"`
	PromoCode         string        `json:"promo_code,omitempty" gorm:"type:varchar(32)"`
	Subtotal          int64         `json:"subtotal" gorm:"not null"`
	Discount          int64         `json:"discount" gorm:"not null;default:0"`
	DeliveryFee       int64         `json:"delivery_fee" gorm:"not null;default:0"`
	TotalAmount       int64         `json:"total_amount" gorm:"not null"`
	Status            OrderStatus   `json:"status" gorm:"type:varchar(16);not null;index"`
	Items             []OrderItem   `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt         time.Time     `json:"updated_at"`
}
