package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oguzk/stockbasket-backend/config"
	"github.com/oguzk/stockbasket-backend/internal/app/controller"
	"github.com/oguzk/stockbasket-backend/internal/app/repository"
	"github.com/oguzk/stockbasket-backend/internal/app/service"
	"github.com/oguzk/stockbasket-backend/internal/db"
	"github.com/oguzk/stockbasket-backend/internal/router"
	"github.com/oguzk/stockbasket-backend/internal/scheduler"
	"github.com/oguzk/stockbasket-backend/pkg/logger"
	"github.com/oguzk/stockbasket-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:  logLevel,
		Format: "console", // Use "json" for production
	})

	logger.Info("Starting StockBasket Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional; without it token revocation is skipped
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Failed to connect to Redis, token revocation disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	basketRepo := repository.NewBasketRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo)
	basketService := service.NewBasketService(basketRepo, productRepo, userRepo, db.GetDB())

	// Initialize controllers
	ctrls := router.Controllers{
		Auth:    controller.NewAuthController(authService, cfg.JWT.AccessTokenExpiry),
		Product: controller.NewProductController(productService),
		Basket:  controller.NewBasketController(basketService),
	}

	// Setup router
	engine := router.Setup(cfg, ctrls)

	// Start nightly subtotal reconciliation
	reconciler := scheduler.NewReconcileScheduler(basketService)
	if err := reconciler.Start(); err != nil {
		logger.Fatal("Failed to start reconciliation scheduler", err)
	}
	defer reconciler.Stop()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
