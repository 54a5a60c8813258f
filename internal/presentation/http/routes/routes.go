package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/francoluca35/comandas-multiples-sub008/internal/config"
	domainRepo "github.com/francoluca35/comandas-multiples-sub008/internal/domain/repository"
	"github.com/francoluca35/comandas-multiples-sub008/internal/presentation/http/handler"
	"github.com/francoluca35/comandas-multiples-sub008/internal/presentation/http/middleware"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Order        *handler.OrderHandler
	Kitchen      *handler.KitchenHandler
	Payment      *handler.PaymentHandler
	Ledger       *handler.LedgerHandler
	Notification *handler.NotificationHandler
	Session      *handler.SessionHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes, all terminal-authenticated
	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.TerminalAuth(deps.JWTManager))

		rateLimiter := middleware.NewTerminalRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: deps.Cfg.RateLimit.RequestsPerSecond,
			BurstSize:         deps.Cfg.RateLimit.Burst,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerOrderRoutes(protected, h)
		registerKitchenRoutes(protected, h)
		registerPaymentRoutes(protected, h, deps)
		registerLedgerRoutes(protected, h)
		registerNotificationRoutes(protected, h)
		registerSessionRoutes(protected, h)
	}

	return router
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers) {
	orders := protected.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.POST("", h.Order.Create)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/items", h.Order.AttachItems)
		orders.DELETE("/:id/items/:itemId", h.Order.RemoveItem)
		orders.PATCH("/:id/customer", h.Order.UpdateCustomer)
		orders.POST("/:id/release", h.Order.Release)
	}
}

func registerPaymentRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	payments := protected.Group("/payments")
	{
		// Finalization replays cached responses for retried gateway confirmations
		payments.POST("/finalize", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Payment.Finalize)
	}
}

func registerKitchenRoutes(protected *gin.RouterGroup, h *Handlers) {
	kitchen := protected.Group("/kitchen/tickets")
	{
		kitchen.GET("", h.Kitchen.ListOpen)
		kitchen.GET("/:id", h.Kitchen.Get)
		kitchen.POST("/:id/start", h.Kitchen.Start)
		kitchen.POST("/:id/ready", h.Kitchen.Ready)
	}
}

func registerLedgerRoutes(protected *gin.RouterGroup, h *Handlers) {
	ledger := protected.Group("/ledger")
	{
		ledger.GET("/:ledger/balance", h.Ledger.Balance)
		ledger.GET("/:ledger/entries", h.Ledger.ListEntries)
		ledger.POST("/:ledger/entries", h.Ledger.Append)
		ledger.POST("/:ledger/deposit", h.Ledger.Deposit)
		ledger.POST("/:ledger/withdraw", h.Ledger.Withdraw)
		// Resetting the till is an admin action
		ledger.POST("/:ledger/reset", middleware.RequireRole("admin"), h.Ledger.Reset)
	}

	protected.GET("/sales/counters", h.Ledger.Counters)
}

func registerNotificationRoutes(protected *gin.RouterGroup, h *Handlers) {
	notifications := protected.Group("/notifications")
	{
		notifications.GET("/stream", h.Notification.Stream)
		notifications.GET("/unread", h.Notification.Unread)
		notifications.POST("/:id/ack", h.Notification.Acknowledge)
	}
}

func registerSessionRoutes(protected *gin.RouterGroup, h *Handlers) {
	sessions := protected.Group("/sessions")
	{
		sessions.POST("/open", h.Session.Open)
		sessions.POST("/close", h.Session.Close)
	}
}
