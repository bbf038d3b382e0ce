package middleware

import (
	"strings"

	"wtch/internal/apierror"
	"wtch/internal/services"
	"wtch/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const claimsKey = "claims"

// AuthRequired is a Fiber middleware to check for a valid, unrevoked JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required", "")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'", "")
		}

		claims, err := authService.ValidateToken(c.UserContext(), strings.TrimSpace(parts[1]))
		if err != nil {
			logger.L().Debug("jwt validation failed", zap.Error(err))
			return unauthorized(c, "Invalid or expired token", err.Error())
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals(claimsKey, claims)
		c.Locals("user_id", claims.UserID)
		c.Locals("username", claims.Username)

		return c.Next()
	}
}

// AdminOnly rejects authenticated callers that are not admins. It must run after AuthRequired.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return unauthorized(c, "Authentication required", "")
		}
		if !claims.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(apierror.Response{
				Code:    apierror.CodeForbidden,
				Message: "Admin access required",
			})
		}
		return c.Next()
	}
}

// Claims returns the verified token claims stored by AuthRequired, or nil.
func Claims(c *fiber.Ctx) *services.Claims {
	claims, _ := c.Locals(claimsKey).(*services.Claims)
	return claims
}

func unauthorized(c *fiber.Ctx, message, detail string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(apierror.Response{
		Code:    apierror.CodeUnauthorized,
		Message: message,
		Error:   detail,
	})
}
