package handlers

import (
	"strings"

	"wtch/internal/middleware"
	"wtch/internal/models"
	"wtch/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Post("/logout", g.Auth, h.HandleLogout)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"max=255"`
	Phone    string `json:"phone" validate:"max=32"`
}

// LoginRequest represents the request body for login. Username accepts an email too.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

// HandleRegister creates a customer account with its cart and issues a token.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	user := &models.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
		FullName: strings.TrimSpace(req.FullName),
		Phone:    strings.TrimSpace(req.Phone),
	}
	token, err := h.authService.RegisterUser(c.UserContext(), user)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    user,
	})
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	token, user, err := h.authService.LoginUser(c.UserContext(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}

// HandleLogout revokes the caller's token.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.Claims(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(MessageResponse{Message: "Logged out successfully"})
}
