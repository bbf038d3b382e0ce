package services

import (
	"context"

	"wtch/internal/models"
	"wtch/internal/repositories"
)

// Stats is the back-office overview.
type Stats struct {
	Users          int64                        `json:"users"`
	Customers      int64                        `json:"customers"`
	Products       int64                        `json:"products"`
	Orders         int64                        `json:"orders"`
	OrdersByStatus map[models.OrderStatus]int64 `json:"orders_by_status"`
	// Revenue sums the totals of orders that were not cancelled.
	Revenue int64 `json:"revenue"`
}

// AdminService aggregates store-wide figures.
type AdminService struct {
	repos *repositories.Repositories
}

func NewAdminService(repos *repositories.Repositories) *AdminService {
	return &AdminService{repos: repos}
}

func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	var (
		stats Stats
		err   error
	)
	if stats.Users, err = s.repos.Users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Customers, err = s.repos.Users.CountByRole(ctx, models.RoleCustomer); err != nil {
		return nil, err
	}
	if stats.Products, err = s.repos.Products.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Orders, err = s.repos.Orders.Count(ctx); err != nil {
		return nil, err
	}
	if stats.OrdersByStatus, err = s.repos.Orders.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if stats.Revenue, err = s.repos.Orders.Revenue(ctx, models.OrderStatusCancelled); err != nil {
		return nil, err
	}
	return &stats, nil
}
