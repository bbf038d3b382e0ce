package handlers

import (
	"wtch/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler serves product reviews.
type ReviewHandler struct {
	service *services.ReviewService
}

func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/products/:id/reviews", h.HandleListReviews)
	router.Post("/products/:id/reviews", g.Auth, h.HandleCreateReview)
}

// ReviewRequest represents the request body for a review.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (h *ReviewHandler) HandleListReviews(c *fiber.Ctx) error {
	reviews, err := h.service.ListReviews(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reviews)
}

func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	var req ReviewRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	review, err := h.service.CreateReview(c.UserContext(), userID(c), c.Params("id"), req.Rating, req.Comment)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}
