package models

import "time"

// Address is a shipping or billing address owned by one user.
type Address struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Address   string    `json:"address" gorm:"not null"`
	State     string    `json:"state" gorm:"type:varchar(100);not null"`
	Zip       string    `json:"zip" gorm:"type:varchar(20);not null"`
	IsDefault bool      `json:"is_default" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
