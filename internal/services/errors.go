package services

import (
	"errors"

	"wtch/internal/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrForbidden          = errors.New("forbidden")

	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrAddressNotFound  = errors.New("address not found")
	ErrOrderNotFound    = errors.New("order not found")

	ErrProductExists        = errors.New("product id already exists")
	ErrInvalidQuantity      = errors.New("quantity must be between 1 and 99")
	ErrAmountTooLarge       = errors.New("amount exceeds the supported range")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrReviewExists         = errors.New("product already reviewed by user")

	ErrNoAddress           = errors.New("no address selected")
	ErrIncompleteAddress   = errors.New("address, state and zip are required")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrProductUnavailable  = errors.New("product in cart is no longer available")
	ErrInvalidPromo        = errors.New("invalid promo code")
	ErrPromoAlreadyApplied = errors.New("promo code already applied")
)

// notFound replaces a repository miss with the given sentinel and passes other errors through.
func notFound(err, sentinel error) error {
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
