package services

import (
	"context"
	"fmt"
	"strings"

	"wtch/internal/models"
	"wtch/internal/repositories"
)

// AddressInput carries the editable fields of an address.
type AddressInput struct {
	Address string
	State   string
	Zip     string
}

// Complete reports whether every field is non-blank.
func (in AddressInput) Complete() bool {
	return strings.TrimSpace(in.Address) != "" &&
		strings.TrimSpace(in.State) != "" &&
		strings.TrimSpace(in.Zip) != ""
}

func (in AddressInput) trimmed() AddressInput {
	return AddressInput{
		Address: strings.TrimSpace(in.Address),
		State:   strings.TrimSpace(in.State),
		Zip:     strings.TrimSpace(in.Zip),
	}
}

// AddressService is the ownership-scoped address book.
type AddressService struct {
	repos *repositories.Repositories
}

func NewAddressService(repos *repositories.Repositories) *AddressService {
	return &AddressService{repos: repos}
}

func (s *AddressService) List(ctx context.Context, userID string) ([]models.Address, error) {
	return s.repos.Addresses.ListByUser(ctx, userID)
}

// Create adds an address. The user's first address becomes the default.
func (s *AddressService) Create(ctx context.Context, userID string, in AddressInput) (*models.Address, error) {
	if !in.Complete() {
		return nil, ErrIncompleteAddress
	}

	var address *models.Address
	err := s.repos.WithTx(ctx, func(tx *repositories.Repositories) error {
		var err error
		address, err = createAddress(ctx, tx, userID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// createAddress inserts an address within tx, making it default when it is the user's first.
func createAddress(ctx context.Context, tx *repositories.Repositories, userID string, in AddressInput) (*models.Address, error) {
	count, err := tx.Addresses.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	in = in.trimmed()
	address := &models.Address{
		UserID:    userID,
		Address:   in.Address,
		State:     in.State,
		Zip:       in.Zip,
		IsDefault: count == 0,
	}
	if err := tx.Addresses.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// ownedAddress loads an address and checks the requester owns it.
func ownedAddress(ctx context.Context, repo repositories.AddressRepository, userID, addressID string) (*models.Address, error) {
	address, err := repo.GetByID(ctx, addressID)
	if err != nil {
		return nil, notFound(err, ErrAddressNotFound)
	}
	if address.UserID != userID {
		return nil, fmt.Errorf("address %s: %w", addressID, ErrForbidden)
	}
	return address, nil
}

func (s *AddressService) Get(ctx context.Context, userID, addressID string) (*models.Address, error) {
	return ownedAddress(ctx, s.repos.Addresses, userID, addressID)
}

func (s *AddressService) Update(ctx context.Context, userID, addressID string, in AddressInput) (*models.Address, error) {
	address, err := ownedAddress(ctx, s.repos.Addresses, userID, addressID)
	if err != nil {
		return nil, err
	}
	if !in.Complete() {
		return nil, ErrIncompleteAddress
	}

	in = in.trimmed()
	address.Address, address.State, address.Zip = in.Address, in.State, in.Zip
	if err := s.repos.Addresses.Update(ctx, address); err != nil {
		return nil, notFound(err, ErrAddressNotFound)
	}
	return address, nil
}

// Delete removes an address. Deleting the default leaves the user without one.
func (s *AddressService) Delete(ctx context.Context, userID, addressID string) error {
	if _, err := ownedAddress(ctx, s.repos.Addresses, userID, addressID); err != nil {
		return err
	}
	if err := s.repos.Addresses.Delete(ctx, addressID); err != nil {
		return notFound(err, ErrAddressNotFound)
	}
	return nil
}

// SetDefault makes the address the user's only default.
func (s *AddressService) SetDefault(ctx context.Context, userID, addressID string) (*models.Address, error) {
	var address *models.Address
	err := s.repos.WithTx(ctx, func(tx *repositories.Repositories) error {
		var err error
		address, err = ownedAddress(ctx, tx.Addresses, userID, addressID)
		if err != nil {
			return err
		}
		if err := tx.Addresses.ClearDefault(ctx, userID); err != nil {
			return err
		}
		if err := tx.Addresses.MarkDefault(ctx, addressID); err != nil {
			return notFound(err, ErrAddressNotFound)
		}
		address.IsDefault = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}
