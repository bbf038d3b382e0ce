package server

import (
	"wtch/internal/config"
	"wtch/internal/repositories"
	"wtch/internal/services"
	"wtch/pkg/tokenstore"
)

// NewServices builds every service over one set of repositories. events may be nil.
func NewServices(cfg config.Config, repos *repositories.Repositories, tokens tokenstore.Store, events services.OrderEventPublisher) Services {
	promos := services.NewPromotionService(repos.Promotions)
	orders := services.NewOrderService(repos.Orders)

	return Services{
		Auth:       services.NewAuthService(repos, tokens, cfg.JWTSecret, cfg.JWTTTL),
		Users:      services.NewUserService(repos.Users),
		Products:   services.NewProductService(repos.Products),
		Carts:      services.NewCartService(repos, promos, cfg.DeliveryFee),
		Addresses:  services.NewAddressService(repos),
		Checkout:   services.NewCheckoutService(repos, promos, events, cfg.DeliveryFee),
		Orders:     orders,
		Reviews:    services.NewReviewService(repos),
		Promotions: promos,
		Admin:      services.NewAdminService(repos),
	}
}
