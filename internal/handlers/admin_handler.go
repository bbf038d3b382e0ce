package handlers

import (
	"wtch/internal/models"
	"wtch/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves back-office endpoints.
type AdminHandler struct {
	admin  *services.AdminService
	orders *services.OrderService
}

func NewAdminHandler(admin *services.AdminService, orders *services.OrderService) *AdminHandler {
	return &AdminHandler{admin: admin, orders: orders}
}

func (h *AdminHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/admin/stats", g.Auth, g.Admin, h.HandleStats)
	router.Get("/admin/orders", g.Auth, g.Admin, h.HandleListOrders)
	router.Patch("/admin/orders/:id/status", g.Auth, g.Admin, h.HandleUpdateOrderStatus)
}

// UpdateStatusRequest represents the request body for an order status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *AdminHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// HandleListOrders lists every order, optionally filtered by the status query parameter.
func (h *AdminHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.orders.ListAllOrders(c.UserContext(), models.OrderStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *AdminHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	order, err := h.orders.UpdateOrderStatus(c.UserContext(), c.Params("id"), models.OrderStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}
