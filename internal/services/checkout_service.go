package services

import (
	"context"
	"fmt"
	"strings"

	"wtch/internal/models"
	"wtch/internal/repositories"
	"wtch/pkg/logger"
	"wtch/pkg/rabbitmq"

	"go.uber.org/zap"
)

// NewAddressID selects creating a new address during checkout.
const NewAddressID = "new"

// OrderEventPublisher announces committed orders.
type OrderEventPublisher interface {
	PublishOrderCreated(event rabbitmq.OrderCreatedEvent) error
}

// CheckoutRequest is one order-placement attempt.
type CheckoutRequest struct {
	// AddressID is an existing shipping address or NewAddressID.
	AddressID string
	// NewAddress is used when AddressID is NewAddressID.
	NewAddress AddressInput
	// BillingAddressID defaults to the shipping address.
	BillingAddressID string
	PaymentMethod    models.PaymentMethod
	PromoCode        string
}

// CheckoutService turns a cart into an order.
type CheckoutService struct {
	repos       *repositories.Repositories
	promos      *PromotionService
	events      OrderEventPublisher
	deliveryFee int64
}

// NewCheckoutService creates a CheckoutService. events may be nil.
func NewCheckoutService(repos *repositories.Repositories, promos *PromotionService, events OrderEventPublisher, deliveryFee int64) *CheckoutService {
	return &CheckoutService{
		repos:       repos,
		promos:      promos,
		events:      events,
		deliveryFee: deliveryFee,
	}
}

// Checkout validates the request, then in one transaction resolves the addresses, prices the
// cart, persists the order with price-frozen items and empties the cart. Any failure leaves
// the cart, address book and orders untouched.
func (s *CheckoutService) Checkout(ctx context.Context, userID string, req CheckoutRequest) (*models.Order, error) {
	addressID := strings.TrimSpace(req.AddressID)
	if addressID == "" {
		return nil, ErrNoAddress
	}
	if addressID == NewAddressID && !req.NewAddress.Complete() {
		return nil, ErrIncompleteAddress
	}

	payment := req.PaymentMethod
	if payment == "" {
		payment = models.PaymentCashOnDelivery
	}
	if !validPaymentMethod(payment) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, payment)
	}

	session := s.promos.NewSession()
	if strings.TrimSpace(req.PromoCode) != "" {
		if err := session.Apply(ctx, req.PromoCode); err != nil {
			return nil, err
		}
	}

	var order *models.Order
	err := s.repos.WithTx(ctx, func(tx *repositories.Repositories) error {
		shippingID, err := s.resolveShipping(ctx, tx, userID, addressID, req.NewAddress)
		if err != nil {
			return err
		}
		billingID := strings.TrimSpace(req.BillingAddressID)
		if billingID == "" {
			billingID = shippingID
		} else if billingID != shippingID {
			if _, err := ownedAddress(ctx, tx.Addresses, userID, billingID); err != nil {
				return err
			}
		}

		cart, err := tx.Carts.GetByUserID(ctx, userID)
		if err != nil {
			return notFound(err, ErrCartNotFound)
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		lines, unavailable := cartLines(cart)
		if len(unavailable) > 0 {
			return fmt.Errorf("product %s: %w", strings.Join(unavailable, ", "), ErrProductUnavailable)
		}
		totals, err := ComputeTotals(lines, session.Rate(), s.deliveryFee)
		if err != nil {
			return err
		}

		order = &models.Order{
			UserID:            userID,
			ShippingAddressID: shippingID,
			BillingAddressID:  billingID,
			PaymentMethod:     payment,
			PromoCode:         session.Code(),
			Subtotal:          totals.Subtotal,
			Discount:          totals.Discount,
			DeliveryFee:       totals.DeliveryFee,
			TotalAmount:       totals.Total,
			Status:            models.OrderStatusPending,
			Items:             snapshotItems(cart.Items),
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		if _, err := tx.Carts.ClearItems(ctx, cart.ID); err != nil {
			// The order insert is rolled back with the failed clear.
			logger.L().Error("failed to clear cart after order creation",
				zap.String("user_id", userID), zap.String("order_id", order.ID), zap.Error(err))
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishOrderCreated(order)
	return order, nil
}

// resolveShipping returns the shipping address ID, creating the address when requested.
func (s *CheckoutService) resolveShipping(ctx context.Context, tx *repositories.Repositories, userID, addressID string, in AddressInput) (string, error) {
	if addressID == NewAddressID {
		address, err := createAddress(ctx, tx, userID, in)
		if err != nil {
			return "", err
		}
		return address.ID, nil
	}
	address, err := ownedAddress(ctx, tx.Addresses, userID, addressID)
	if err != nil {
		return "", err
	}
	return address.ID, nil
}

// snapshotItems freezes the current product data of each cart line.
func snapshotItems(items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.OrderItem{
			ProductID: item.ProductID,
			Brand:     item.Product.Brand,
			Model:     item.Product.Model,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		})
	}
	return out
}

func (s *CheckoutService) publishOrderCreated(order *models.Order) {
	if s.events == nil {
		return
	}
	event := rabbitmq.OrderCreatedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		CreatedAt:   order.CreatedAt,
	}
	if err := s.events.PublishOrderCreated(event); err != nil {
		logger.L().Warn("failed to publish order created event", zap.String("order_id", order.ID), zap.Error(err))
	}
}

func validPaymentMethod(m models.PaymentMethod) bool {
	switch m {
	case models.PaymentCashOnDelivery, models.PaymentCard, models.PaymentBankTransfer:
		return true
	}
	return false
}
