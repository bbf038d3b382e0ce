package services

import (
	"context"
	"strings"

	"wtch/internal/models"
	"wtch/internal/repositories"
)

// ReviewService records product ratings and keeps the product aggregate current.
type ReviewService struct {
	repos *repositories.Repositories
}

func NewReviewService(repos *repositories.Repositories) *ReviewService {
	return &ReviewService{repos: repos}
}

// CreateReview stores the user's only review of a product and recomputes the product's
// star_review as the mean of all its ratings.
func (s *ReviewService) CreateReview(ctx context.Context, userID, productID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	err := s.repos.WithTx(ctx, func(tx *repositories.Repositories) error {
		if _, err := tx.Products.GetByID(ctx, productID); err != nil {
			return notFound(err, ErrProductNotFound)
		}
		exists, err := tx.Reviews.Exists(ctx, userID, productID)
		if err != nil {
			return err
		}
		if exists {
			return ErrReviewExists
		}
		if err := tx.Reviews.Create(ctx, review); err != nil {
			return err
		}

		avg, err := tx.Reviews.AverageRating(ctx, productID)
		if err != nil {
			return err
		}
		return tx.Products.UpdateStarReview(ctx, productID, avg)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviews returns a product's reviews, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, productID string) ([]models.Review, error) {
	if _, err := s.repos.Products.GetByID(ctx, productID); err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return s.repos.Reviews.ListByProduct(ctx, productID)
}
