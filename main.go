package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"wtch/internal/config"
	"wtch/internal/models"
	"wtch/internal/repositories"
	"wtch/internal/server"
	"wtch/internal/services"
	"wtch/pkg/database"
	"wtch/pkg/logger"
	"wtch/pkg/rabbitmq"
	"wtch/pkg/tokenstore"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	if err := logger.Init(cfg.IsDevelopment()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, cfg, logger.L())
	stop()
	if err != nil {
		logger.L().Error("server exited with error", zap.Error(err))
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run starts the storefront and blocks until ctx is done or the listener fails.
// Every resource it opens is released before it returns.
func run(ctx context.Context, cfg config.Config, zlog *zap.Logger) error {
	// --- Database ---
	db, err := database.Open(database.Config{Driver: cfg.DatabaseDriver, DSN: cfg.DatabaseDSN}, zlog)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close(db, zlog)

	if err := database.Migrate(db, models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	repos := repositories.NewGORMRepositories(db)

	// --- Token store ---
	tokens, closeTokens, err := newTokenStore(cfg, zlog)
	if err != nil {
		return fmt.Errorf("failed to initialize token store: %w", err)
	}
	defer closeTokens()

	// --- Initialize RabbitMQ Client ---
	mqClient, err := connectRabbitMQ(cfg, zlog)
	if err != nil {
		return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
	}
	var events services.OrderEventPublisher
	if mqClient != nil {
		defer mqClient.Close() // Ensure the connection is closed on exit
		events = mqClient
		startOrderConsumer(mqClient, zlog)
	}

	// --- Initialize Services ---
	svc := server.NewServices(cfg, repos, tokens, events)

	if err := svc.Promotions.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed promotions: %w", err)
	}
	if err := svc.Auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	if cfg.IsDevelopment() {
		seedProducts(ctx, svc.Products, zlog)
	}

	// --- Initialize Fiber App ---
	app := server.New(svc, server.Options{CORSOrigins: cfg.CORSOrigins, RequestLog: true})

	// --- Start HTTP Server ---
	zlog.Info("starting server", zap.String("port", cfg.AppPort))

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.AppPort)
	}()

	// Wait for interrupt signal to gracefully shut down the server
	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}
	zlog.Info("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("error during fiber shutdown", zap.Error(err))
	}

	zlog.Info("server gracefully stopped")
	return nil
}

// newTokenStore uses redis when REDIS_ADDR is set and an in-process store otherwise.
func newTokenStore(cfg config.Config, zlog *zap.Logger) (tokenstore.Store, func(), error) {
	if cfg.RedisAddr == "" {
		zlog.Info("REDIS_ADDR not set, revoked tokens are kept in memory")
		return tokenstore.NewMemoryStore(), func() {}, nil
	}
	store, err := tokenstore.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, zlog)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			zlog.Warn("failed to close redis", zap.Error(err))
		}
	}, nil
}

// connectRabbitMQ returns nil without error when RABBITMQ_URL is not set.
func connectRabbitMQ(cfg config.Config, zlog *zap.Logger) (*rabbitmq.Client, error) {
	if cfg.RabbitMQURL == "" {
		zlog.Info("RABBITMQ_URL not set, order events are disabled")
		return nil, nil
	}
	return rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, zlog)
}

// startOrderConsumer logs a notification for every committed order.
func startOrderConsumer(mqClient *rabbitmq.Client, zlog *zap.Logger) {
	zlog.Info("starting RabbitMQ consumer for orders")
	err := mqClient.ConsumeOrderEvents(func(event rabbitmq.OrderCreatedEvent) error {
		zlog.Info("order placed",
			zap.String("order_id", event.OrderID),
			zap.String("user_id", event.UserID),
			zap.Int64("total_amount", event.TotalAmount),
			zap.Int("items", event.ItemCount))
		return nil
	})
	if err != nil {
		zlog.Error("failed to start RabbitMQ consumer", zap.Error(err))
	}
}

// seedProducts fills an empty development catalog with a few watches.
func seedProducts(ctx context.Context, products *services.ProductService, zlog *zap.Logger) {
	existing, err := products.GetAllProducts(ctx, services.ProductFilter{})
	if err != nil {
		zlog.Warn("failed to read catalog for seeding", zap.Error(err))
		return
	}
	if len(existing) > 0 {
		return
	}

	seed := []models.Product{
		{ID: "seiko-presage-srpd37", Brand: "Seiko", Model: "Presage Cocktail Time", Price: 45000, StockQuantity: 10, Category: []string{"automatic", "dress"}, CaseSize: "40.5mm"},
		{ID: "casio-gshock-ga2100", Brand: "Casio", Model: "G-Shock GA-2100", Price: 12000, StockQuantity: 25, Category: []string{"digital", "sport"}, CaseSize: "45.4mm"},
		{ID: "orient-bambino-v2", Brand: "Orient", Model: "Bambino Version 2", Price: 20000, StockQuantity: 15, Category: []string{"automatic", "dress"}, CaseSize: "40.5mm"},
	}
	for i := range seed {
		err := products.CreateProduct(ctx, &seed[i])
		if errors.Is(err, services.ErrProductExists) {
			continue
		}
		if err != nil {
			zlog.Warn("failed to seed product", zap.String("id", seed[i].ID), zap.Error(err))
			continue
		}
		zlog.Info("seeded product", zap.String("id", seed[i].ID))
	}
}
