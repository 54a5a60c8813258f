package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/francoluca35/comandas-multiples-sub008/internal/application/service"
	"github.com/francoluca35/comandas-multiples-sub008/internal/config"
	"github.com/francoluca35/comandas-multiples-sub008/internal/infrastructure/database"
	"github.com/francoluca35/comandas-multiples-sub008/internal/infrastructure/repository"
	"github.com/francoluca35/comandas-multiples-sub008/internal/presentation/http/handler"
	"github.com/francoluca35/comandas-multiples-sub008/internal/presentation/http/routes"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the ledger checkpoints so balances have a fold anchor
	if err := database.SeedCheckpoints(db); err != nil {
		log.Fatalf("Failed to seed ledger checkpoints: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	txManager := repository.NewTxManager(db)

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo, cfg.Engine.SubscriberBuffer)
	orderService := service.NewOrderService(orderRepo, ticketRepo, notificationService, cfg.Engine.MaxRetries)
	kitchenService := service.NewKitchenService(ticketRepo, orderRepo, notificationService, cfg.Engine.MaxRetries)
	ledgerService := service.NewLedgerService(ledgerRepo, txManager, cfg.Engine.MaxRetries)
	counterService := service.NewCounterService(counterRepo)
	paymentService := service.NewPaymentService(txManager, cfg.Engine.MaxRetries)
	sessionService := service.NewSessionService(sessionRepo, employeeRepo, cfg.Engine.MaxRetries)

	// Initialize handlers
	handlers := &routes.Handlers{
		Order:        handler.NewOrderHandler(orderService),
		Kitchen:      handler.NewKitchenHandler(kitchenService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Ledger:       handler.NewLedgerHandler(ledgerService, counterService),
		Notification: handler.NewNotificationHandler(notificationService),
		Session:      handler.NewSessionHandler(sessionService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
