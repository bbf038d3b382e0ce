package handlers

import (
	"strings"

	"wtch/internal/models"
	"wtch/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers the product routes. Reads are public; writes need an admin.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/products", h.HandleGetProducts)
	router.Get("/products/:id", h.HandleGetProductByID)
	router.Post("/products", g.Auth, g.Admin, h.HandleCreateProduct)
	router.Put("/products/:id", g.Auth, g.Admin, h.HandleUpdateProduct)
	router.Delete("/products/:id", g.Auth, g.Admin, h.HandleDeleteProduct)
}

// ProductRequest represents the request body for creating or replacing a product.
type ProductRequest struct {
	ID            string   `json:"id" validate:"omitempty,max=64"`
	Brand         string   `json:"brand" validate:"required,max=100"`
	Model         string   `json:"model" validate:"required,max=100"`
	Description   string   `json:"description"`
	Price         int64    `json:"price" validate:"gte=0"`
	StockQuantity int      `json:"stock_quantity" validate:"gte=0"`
	Category      []string `json:"category" validate:"dive,required"`
	ImageURL      string   `json:"image_url" validate:"omitempty,url"`
	CaseSize      string   `json:"case_size" validate:"max=32"`
}

func (r ProductRequest) toModel(id string) *models.Product {
	return &models.Product{
		ID:            id,
		Brand:         strings.TrimSpace(r.Brand),
		Model:         strings.TrimSpace(r.Model),
		Description:   r.Description,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
		Category:      r.Category,
		ImageURL:      r.ImageURL,
		CaseSize:      r.CaseSize,
	}
}

// HandleGetProducts lists products, filtered by the optional q and category query parameters.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext(), services.ProductFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return respondError(c, &requestError{message: "Validation failed", fields: map[string]string{
			"id": "Field 'id' failed on the 'required' tag",
		}})
	}

	product := req.toModel(id)
	if err := h.service.CreateProduct(c.UserContext(), product); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), req.toModel(c.Params("id")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
