package handlers

import (
	"wtch/internal/middleware"
	"wtch/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Guards are the middlewares attached to protected routes.
type Guards struct {
	Auth  fiber.Handler
	Admin fiber.Handler
}

// NewGuards builds the bearer-token and admin-role guards.
func NewGuards(authService *services.AuthService) Guards {
	return Guards{
		Auth:  middleware.AuthRequired(authService),
		Admin: middleware.AdminOnly(),
	}
}

// userID returns the authenticated caller. Routes using it sit behind Guards.Auth.
func userID(c *fiber.Ctx) string {
	if claims := middleware.Claims(c); claims != nil {
		return claims.UserID
	}
	return ""
}

// MessageResponse is the body of requests that only report success.
type MessageResponse struct {
	Message string `json:"message"`
}
