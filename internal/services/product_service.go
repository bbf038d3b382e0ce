package services

import (
	"context"
	"fmt"

	"wtch/internal/models"
	"wtch/internal/repositories"
)

// ProductFilter narrows a catalog listing. Empty fields match everything.
type ProductFilter struct {
	Query    string
	Category string
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves the products matching the filter.
func (s *ProductService) GetAllProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !p.Matches(filter.Query) {
			continue
		}
		if filter.Category != "" && !p.HasCategory(filter.Category) {
			continue
		}
		matched = append(matched, p)
	}
	return matched, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return product, nil
}

// CreateProduct creates a new product under its caller-supplied ID.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	exists, err := s.repo.Exists(ctx, product.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("product '%s': %w", product.ID, ErrProductExists)
	}
	// The aggregate rating is derived from reviews only.
	product.StarReview = 0
	return s.repo.Create(ctx, product)
}

// UpdateProduct updates an existing product and returns its stored state.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return s.GetProductByID(ctx, product.ID)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, ErrProductNotFound)
	}
	return nil
}
