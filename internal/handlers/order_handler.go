package handlers

import (
	"wtch/internal/models"
	"wtch/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for checkout and order history.
type OrderHandler struct {
	service  *services.OrderService
	checkout *services.CheckoutService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, checkout *services.CheckoutService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		checkout: checkout,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/orders", g.Auth, h.HandleGetOrders)
	router.Post("/orders", g.Auth, h.HandleCheckout)
	router.Get("/orders/:id", g.Auth, h.HandleGetOrderByID)
}

// CheckoutRequest represents the request body for placing an order. AddressID is an
// existing address or "new", in which case Address, State and Zip describe it.
type CheckoutRequest struct {
	AddressID        string `json:"address_id"`
	Address          string `json:"address"`
	State            string `json:"state"`
	Zip              string `json:"zip"`
	BillingAddressID string `json:"billing_address_id"`
	PaymentMethod    string `json:"payment_method" validate:"omitempty,oneof=cash_on_delivery card bank_transfer"`
	PromoCode        string `json:"promo_code" validate:"max=32"`
}

// HandleGetOrders retrieves the caller's orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves one of the caller's orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleCheckout turns the caller's cart into an order.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	order, err := h.checkout.Checkout(c.UserContext(), userID(c), services.CheckoutRequest{
		AddressID: req.AddressID,
		NewAddress: services.AddressInput{
			Address: req.Address,
			State:   req.State,
			Zip:     req.Zip,
		},
		BillingAddressID: req.BillingAddressID,
		PaymentMethod:    models.PaymentMethod(req.PaymentMethod),
		PromoCode:        req.PromoCode,
	})
	if err != nil {
		return respondError(c, err)
	}

	// Return the created order with its new ID and a 201 Created status
	return c.Status(fiber.StatusCreated).JSON(order)
}
