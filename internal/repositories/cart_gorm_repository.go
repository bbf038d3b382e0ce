package repositories

import (
	"context"
	"errors"
	"fmt"

	"wtch/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// Create creates an empty cart.
func (r *GORMCartRepository) Create(ctx context.Context, cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// GetByUserID retrieves the user's cart with items in insertion order.
// An item whose product was deleted keeps a nil Product.
func (r *GORMCartRepository) GetByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Items.Product").
		First(&cart, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart of user %s: %w", userID, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get cart of user %s: %w", userID, err)
	}
	return &cart, nil
}

// GetItem retrieves a cart item with its product.
func (r *GORMCartRepository) GetItem(ctx context.Context, itemID string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).Preload("Product").First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item %s: %w", itemID, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item %s: %w", itemID, err)
	}
	return &item, nil
}

// FindItem retrieves the line for a product in a cart.
func (r *GORMCartRepository) FindItem(ctx context.Context, cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s in cart %s: %w", productID, cartID, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to find product %s in cart %s: %w", productID, cartID, err)
	}
	return &item, nil
}

// SaveItem inserts a new item or updates the quantity of an existing one.
func (r *GORMCartRepository) SaveItem(ctx context.Context, item *models.CartItem) error {
	db := r.db.WithContext(ctx)
	if item.ID == "" {
		item.ID = uuid.New().String()
		if err := db.Omit("Product").Create(item).Error; err != nil {
			return fmt.Errorf("failed to create cart item: %w", err)
		}
		return nil
	}
	res := db.Model(&models.CartItem{}).Where("id = ?", item.ID).Update("quantity", item.Quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item %s: %w", item.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s: %w", item.ID, ErrRecordNotFound)
	}
	return nil
}

// DeleteItem removes one line. Deleting a missing line is not an error.
func (r *GORMCartRepository) DeleteItem(ctx context.Context, itemID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", itemID).Error; err != nil {
		return fmt.Errorf("failed to delete cart item %s: %w", itemID, err)
	}
	return nil
}

// ClearItems removes every line of a cart and returns how many were removed.
func (r *GORMCartRepository) ClearItems(ctx context.Context, cartID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear cart %s: %w", cartID, res.Error)
	}
	return res.RowsAffected, nil
}
