package server

import (
	"time"

	"wtch/internal/handlers"
	"wtch/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Services are the business services the HTTP API exposes.
type Services struct {
	Auth       *services.AuthService
	Users      *services.UserService
	Products   *services.ProductService
	Carts      *services.CartService
	Addresses  *services.AddressService
	Checkout   *services.CheckoutService
	Orders     *services.OrderService
	Reviews    *services.ReviewService
	Promotions *services.PromotionService
	Admin      *services.AdminService
}

// Options tune the Fiber app.
type Options struct {
	CORSOrigins string
	// RequestLog enables the per-request access log.
	RequestLog bool
}

// New assembles the Fiber app with every route of the storefront API.
func New(svc Services, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "wtch",
		ErrorHandler: handlers.ErrorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	if opts.RequestLog {
		app.Use(logger.New())
	}
	origins := opts.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- API Routes ---
	guards := handlers.NewGuards(svc.Auth)
	handlers.NewAuthHandler(svc.Auth).RegisterRoutes(app, guards)
	handlers.NewUserHandler(svc.Users).RegisterRoutes(app, guards)
	handlers.NewProductHandler(svc.Products).RegisterRoutes(app, guards)
	handlers.NewReviewHandler(svc.Reviews).RegisterRoutes(app, guards)
	handlers.NewCartHandler(svc.Carts, svc.Promotions).RegisterRoutes(app, guards)
	handlers.NewAddressHandler(svc.Addresses).RegisterRoutes(app, guards)
	handlers.NewOrderHandler(svc.Orders, svc.Checkout).RegisterRoutes(app, guards)
	handlers.NewAdminHandler(svc.Admin, svc.Orders).RegisterRoutes(app, guards)

	return app
}
