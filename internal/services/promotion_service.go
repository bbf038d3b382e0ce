package services

import (
	"context"
	"strings"

	"wtch/internal/models"
	"wtch/internal/repositories"

	"github.com/shopspring/decimal"
)

// DefaultPromoCode is seeded into the promotions collection at startup.
const DefaultPromoCode = "WTCH.CO"

// PromotionService resolves promo codes against the promotions collection.
type PromotionService struct {
	repo repositories.PromotionRepository
}

func NewPromotionService(repo repositories.PromotionRepository) *PromotionService {
	return &PromotionService{repo: repo}
}

// SeedDefaults makes sure the launch promotion exists.
func (s *PromotionService) SeedDefaults(ctx context.Context) error {
	return s.repo.Upsert(ctx, &models.Promotion{
		Code:         DefaultPromoCode,
		DiscountRate: decimal.RequireFromString("0.10"),
		Active:       true,
	})
}

// Lookup returns the active promotion for a code. Codes are matched case-insensitively.
func (s *PromotionService) Lookup(ctx context.Context, code string) (*models.Promotion, error) {
	code = normalizePromoCode(code)
	if code == "" {
		return nil, ErrInvalidPromo
	}
	promo, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, notFound(err, ErrInvalidPromo)
	}
	if !promo.Active {
		return nil, ErrInvalidPromo
	}
	return promo, nil
}

// NewSession starts a checkout session in which one promo code may be applied.
func (s *PromotionService) NewSession() *PromoSession {
	return &PromoSession{promos: s}
}

func normalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// PromoSession tracks the single, non-stacking promo of one checkout.
type PromoSession struct {
	promos  *PromotionService
	applied *models.Promotion
}

// Apply applies a code. An unknown code or a second application leaves the rate unchanged.
func (p *PromoSession) Apply(ctx context.Context, code string) error {
	if p.applied != nil {
		return ErrPromoAlreadyApplied
	}
	promo, err := p.promos.Lookup(ctx, code)
	if err != nil {
		return err
	}
	p.applied = promo
	return nil
}

// Rate is the applied discount rate, zero when nothing is applied.
func (p *PromoSession) Rate() decimal.Decimal {
	if p.applied == nil {
		return decimal.Zero
	}
	return p.applied.DiscountRate
}

// Code is the applied promo code, empty when nothing is applied.
func (p *PromoSession) Code() string {
	if p.applied == nil {
		return ""
	}
	return p.applied.Code
}
