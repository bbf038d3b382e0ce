package handlers

import (
	"wtch/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AddressHandler serves the caller's address book.
type AddressHandler struct {
	service *services.AddressService
}

func NewAddressHandler(service *services.AddressService) *AddressHandler {
	return &AddressHandler{service: service}
}

func (h *AddressHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/addresses", g.Auth, h.HandleListAddresses)
	router.Post("/addresses", g.Auth, h.HandleCreateAddress)
	router.Get("/addresses/:id", g.Auth, h.HandleGetAddress)
	router.Put("/addresses/:id", g.Auth, h.HandleUpdateAddress)
	router.Delete("/addresses/:id", g.Auth, h.HandleDeleteAddress)
	router.Patch("/addresses/:id/default", g.Auth, h.HandleSetDefault)
}

// AddressRequest represents the request body for creating or editing an address.
type AddressRequest struct {
	Address string `json:"address" validate:"required,max=500"`
	State   string `json:"state" validate:"required,max=100"`
	Zip     string `json:"zip" validate:"required,max=20"`
}

func (r AddressRequest) input() services.AddressInput {
	return services.AddressInput{Address: r.Address, State: r.State, Zip: r.Zip}
}

func (h *AddressHandler) HandleListAddresses(c *fiber.Ctx) error {
	addresses, err := h.service.List(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(addresses)
}

func (h *AddressHandler) HandleCreateAddress(c *fiber.Ctx) error {
	var req AddressRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	address, err := h.service.Create(c.UserContext(), userID(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}

func (h *AddressHandler) HandleGetAddress(c *fiber.Ctx) error {
	address, err := h.service.Get(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(address)
}

func (h *AddressHandler) HandleUpdateAddress(c *fiber.Ctx) error {
	var req AddressRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	address, err := h.service.Update(c.UserContext(), userID(c), c.Params("id"), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(address)
}

func (h *AddressHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), userID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AddressHandler) HandleSetDefault(c *fiber.Ctx) error {
	address, err := h.service.SetDefault(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(address)
}
