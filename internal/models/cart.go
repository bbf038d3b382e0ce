package models

import "time"

// Cart is the single pre-order basket of a customer.
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `json:"user_id" gorm:"uniqueIndex;type:varchar(36);not null"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is one line of a cart. A product appears at most once per cart.
// Available is false when the product has since been removed from the catalog.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string    `json:"cart_id" gorm:"type:varchar(36);not null;uniqueIndex:ux_cart_items_cart_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(64);not null;uniqueIndex:ux_cart_items_cart_product"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Available bool      `json:"available" gorm:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
