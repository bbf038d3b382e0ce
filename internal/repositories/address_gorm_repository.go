package repositories

import (
	"context"
	"errors"
	"fmt"

	"wtch/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

// NewGORMAddressRepository creates a new instance of GORMAddressRepository.
func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{db: db}
}

// ListByUser returns the user's addresses, default first.
func (r *GORMAddressRepository) ListByUser(ctx context.Context, userID string) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses of user %s: %w", userID, err)
	}
	return addresses, nil
}

func (r *GORMAddressRepository) GetByID(ctx context.Context, id string) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("address %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get address %s: %w", id, err)
	}
	return &address, nil
}

func (r *GORMAddressRepository) Create(ctx context.Context, address *models.Address) error {
	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}

// Update stores the address line, state and zip.
func (r *GORMAddressRepository) Update(ctx context.Context, address *models.Address) error {
	res := r.db.WithContext(ctx).Model(&models.Address{}).Where("id = ?", address.ID).
		Select("address", "state", "zip").
		Updates(address)
	if res.Error != nil {
		return fmt.Errorf("failed to update address %s: %w", address.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("address %s not updated: %w", address.ID, ErrRecordNotFound)
	}
	return nil
}

func (r *GORMAddressRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Address{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete address %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("address %s not deleted: %w", id, ErrRecordNotFound)
	}
	return nil
}

// ClearDefault unsets the default flag on every address of the user.
func (r *GORMAddressRepository) ClearDefault(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
	if err != nil {
		return fmt.Errorf("failed to clear default address of user %s: %w", userID, err)
	}
	return nil
}

// MarkDefault sets the default flag on one address.
func (r *GORMAddressRepository) MarkDefault(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.Address{}).Where("id = ?", id).Update("is_default", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark address %s default: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("address %s: %w", id, ErrRecordNotFound)
	}
	return nil
}

func (r *GORMAddressRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Address{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count addresses of user %s: %w", userID, err)
	}
	return count, nil
}
