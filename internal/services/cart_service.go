package services

import (
	"context"
	"errors"
	"fmt"

	"wtch/internal/models"
	"wtch/internal/repositories"
)

// CartService manages the single cart of each customer.
type CartService struct {
	repos       *repositories.Repositories
	promos      *PromotionService
	deliveryFee int64
}

func NewCartService(repos *repositories.Repositories, promos *PromotionService, deliveryFee int64) *CartService {
	return &CartService{repos: repos, promos: promos, deliveryFee: deliveryFee}
}

// GetCart returns the user's cart with every item and its product.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.repos.Carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrCartNotFound)
	}
	for i := range cart.Items {
		cart.Items[i].Available = cart.Items[i].Product != nil
	}
	return cart, nil
}

// AddItem adds a product to the cart. A zero quantity means 1; a product already in the
// cart has its quantity increased, up to MaxLineQuantity.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 || quantity > MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}

	product, err := s.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	cart, err := s.repos.Carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrCartNotFound)
	}

	item, err := s.repos.Carts.FindItem(ctx, cart.ID, productID)
	switch {
	case err == nil:
		if item.Quantity+quantity > MaxLineQuantity {
			return nil, fmt.Errorf("product %s already has %d in cart: %w", productID, item.Quantity, ErrInvalidQuantity)
		}
		item.Quantity += quantity
	case errors.Is(err, repositories.ErrRecordNotFound):
		item = &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
	default:
		return nil, err
	}

	if err := s.repos.Carts.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	item.Product = product
	item.Available = true
	return item, nil
}

// ownedItem loads an item and checks it sits in the requester's cart.
func (s *CartService) ownedItem(ctx context.Context, userID, itemID string) (*models.CartItem, error) {
	item, err := s.repos.Carts.GetItem(ctx, itemID)
	if err != nil {
		return nil, notFound(err, ErrCartItemNotFound)
	}
	cart, err := s.repos.Carts.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, fmt.Errorf("cart item %s: %w", itemID, ErrForbidden)
	}
	return item, nil
}

// UpdateQuantity sets the quantity of one of the requester's items.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 || quantity > MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	item.Quantity = quantity
	if err := s.repos.Carts.SaveItem(ctx, item); err != nil {
		return nil, notFound(err, ErrCartItemNotFound)
	}
	item.Available = item.Product != nil
	return item, nil
}

// RemoveItem deletes one of the requester's items. A missing item is not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	_, err := s.ownedItem(ctx, userID, itemID)
	if errors.Is(err, ErrCartItemNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.repos.Carts.DeleteItem(ctx, itemID)
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return err
	}
	_, err = s.repos.Carts.ClearItems(ctx, cart.ID)
	return err
}

// Summary prices the available lines of the cart, applying the promo code when one is given.
// Lines whose product was removed from the catalog are counted in UnavailableItems.
func (s *CartService) Summary(ctx context.Context, cart *models.Cart, promoCode string) (Totals, error) {
	session := s.promos.NewSession()
	if promoCode != "" {
		if err := session.Apply(ctx, promoCode); err != nil {
			return Totals{}, err
		}
	}

	lines, unavailable := cartLines(cart)
	totals, err := ComputeTotals(lines, session.Rate(), s.deliveryFee)
	if err != nil {
		return Totals{}, err
	}
	totals.PromoCode = session.Code()
	totals.UnavailableItems = len(unavailable)
	return totals, nil
}

// cartLines prices cart items at the current catalog price and returns the product IDs of
// items whose product no longer exists.
func cartLines(cart *models.Cart) (lines []Line, unavailable []string) {
	lines = make([]Line, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.Product == nil {
			unavailable = append(unavailable, item.ProductID)
			continue
		}
		lines = append(lines, Line{Price: item.Product.Price, Quantity: item.Quantity})
	}
	return lines, unavailable
}
