package repositories

import (
	"context"
	"errors"
	"fmt"

	"wtch/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMPromotionRepository is a GORM implementation of PromotionRepository.
type GORMPromotionRepository struct {
	db *gorm.DB
}

// NewGORMPromotionRepository creates a new instance of GORMPromotionRepository.
func NewGORMPromotionRepository(db *gorm.DB) *GORMPromotionRepository {
	return &GORMPromotionRepository{db: db}
}

func (r *GORMPromotionRepository) GetByCode(ctx context.Context, code string) (*models.Promotion, error) {
	var promo models.Promotion
	if err := r.db.WithContext(ctx).First(&promo, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("promotion %s: %w", code, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get promotion %s: %w", code, err)
	}
	return &promo, nil
}

// Upsert inserts the promotion or overwrites the one with the same code.
func (r *GORMPromotionRepository) Upsert(ctx context.Context, promo *models.Promotion) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"discount_rate", "active", "updated_at"}),
	}).Create(promo).Error
	if err != nil {
		return fmt.Errorf("failed to upsert promotion %s: %w", promo.Code, err)
	}
	return nil
}
