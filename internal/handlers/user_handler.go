package handlers

import (
	"strings"

	"wtch/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the caller's own profile.
type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/user", g.Auth, h.HandleGetProfile)
	router.Put("/user", g.Auth, h.HandleUpdateProfile)
}

// UpdateProfileRequest represents the request body for a profile update.
type UpdateProfileRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	FullName string `json:"full_name" validate:"max=255"`
	Phone    string `json:"phone" validate:"max=32"`
}

func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.service.GetProfile(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.service.UpdateProfile(c.UserContext(), userID(c), services.ProfileUpdate{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		FullName: strings.TrimSpace(req.FullName),
		Phone:    strings.TrimSpace(req.Phone),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
