package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product represents a catalog entry. Its ID is chosen by the caller.
type Product struct {
	ID            string                      `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Brand         string                      `json:"brand" gorm:"type:varchar(100);not null"`
	Model         string                      `json:"model" gorm:"type:varchar(100);not null"`
	Description   string                      `json:"description"`
	Price         int64                       `json:"price" gorm:"not null"`
	StockQuantity int                         `json:"stock_quantity" gorm:"not null;default:0"`
	Category      datatypes.JSONSlice[string] `json:"category"`
	ImageURL      string                      `json:"image_url"`
	CaseSize      string                      `json:"case_size" gorm:"type:varchar(32)"`
	StarReview    float64                     `json:"star_review" gorm:"not null;default:0"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	DeletedAt     gorm.DeletedAt              `json:"-" gorm:"index"`
}

// HasCategory reports whether the product carries the tag, ignoring case.
func (p Product) HasCategory(tag string) bool {
	for _, c := range p.Category {
		if strings.EqualFold(c, tag) {
			return true
		}
	}
	return false
}

// Matches reports whether the brand or model contains the query, ignoring case.
func (p Product) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Brand), q) || strings.Contains(strings.ToLower(p.Model), q)
}
