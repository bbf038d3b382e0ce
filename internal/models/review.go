package models

import "time"

// Review is a user's rating of a product. One per (user, product).
type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:ux_reviews_user_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(64);not null;uniqueIndex:ux_reviews_user_product;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
