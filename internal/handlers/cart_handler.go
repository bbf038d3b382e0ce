package handlers

import (
	"wtch/internal/models"
	"wtch/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CartHandler serves the caller's cart.
type CartHandler struct {
	service *services.CartService
	promos  *services.PromotionService
}

func NewCartHandler(service *services.CartService, promos *services.PromotionService) *CartHandler {
	return &CartHandler{service: service, promos: promos}
}

func (h *CartHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/cart", g.Auth, h.HandleGetCart)
	router.Post("/cart", g.Auth, h.HandleAddItem)
	router.Post("/cart/promo", g.Auth, h.HandleCheckPromo)
	router.Put("/cart/:item_id", g.Auth, h.HandleUpdateItem)
	router.Delete("/cart/:item_id", g.Auth, h.HandleRemoveItem)
}

// AddItemRequest represents the request body for adding a product. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=99"`
}

// UpdateItemRequest represents the request body for changing a quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=99"`
}

// PromoRequest represents the request body for checking a promo code.
type PromoRequest struct {
	Code string `json:"code" validate:"required"`
}

// CartResponse is the cart with its price breakdown.
type CartResponse struct {
	ID      string            `json:"id"`
	Items   []models.CartItem `json:"items"`
	Summary services.Totals   `json:"summary"`
}

// PromoResponse describes a valid promo code applied to the current cart.
type PromoResponse struct {
	Code         string          `json:"code"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	Summary      services.Totals `json:"summary"`
}

// HandleGetCart returns every line of the cart priced with the optional promo query parameter.
// Lines whose product was removed are listed with available=false and left out of the summary.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	ctx := c.UserContext()
	cart, err := h.service.GetCart(ctx, userID(c))
	if err != nil {
		return respondError(c, err)
	}
	summary, err := h.service.Summary(ctx, cart, c.Query("promo"))
	if err != nil {
		return respondError(c, err)
	}

	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return c.JSON(CartResponse{ID: cart.ID, Items: items, Summary: summary})
}

func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	item, err := h.service.AddItem(c.UserContext(), userID(c), req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	item, err := h.service.UpdateQuantity(c.UserContext(), userID(c), c.Params("item_id"), req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// HandleRemoveItem deletes a line. Removing a line that does not exist succeeds.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	if err := h.service.RemoveItem(c.UserContext(), userID(c), c.Params("item_id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCheckPromo validates a code and prices the cart with it without changing anything.
func (h *CartHandler) HandleCheckPromo(c *fiber.Ctx) error {
	var req PromoRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx := c.UserContext()
	promo, err := h.promos.Lookup(ctx, req.Code)
	if err != nil {
		return respondError(c, err)
	}
	cart, err := h.service.GetCart(ctx, userID(c))
	if err != nil {
		return respondError(c, err)
	}
	summary, err := h.service.Summary(ctx, cart, promo.Code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(PromoResponse{Code: promo.Code, DiscountRate: promo.DiscountRate, Summary: summary})
}
