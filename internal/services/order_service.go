package services

import (
	"context"
	"fmt"

	"wtch/internal/models"
	"wtch/internal/repositories"
)

// OrderService handles order history and admin status changes.
type OrderService struct {
	orderRepo repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
	}
}

// ListOrders returns the user's orders with items, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.List(ctx, repositories.OrderListFilter{UserID: userID})
}

// GetOrder returns one of the requester's orders.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrForbidden)
	}
	return order, nil
}

// ListAllOrders returns every order, optionally restricted to one status.
func (s *OrderService) ListAllOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	return s.orderRepo.List(ctx, repositories.OrderListFilter{Status: status})
}

// UpdateOrderStatus sets any known status regardless of the current one.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	return order, nil
}
