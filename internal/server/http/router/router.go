package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/autoshop/internal/config"
	"github.com/polkiloo/autoshop/internal/idempotency"
	"github.com/polkiloo/autoshop/internal/invoice"
	"github.com/polkiloo/autoshop/internal/server/http/handlers"
	"github.com/polkiloo/autoshop/internal/server/http/middleware"
)

const checkoutScope = "checkout"

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StoreFacade, guard idempotency.Guard, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest(middleware.MaxRequestBody))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	engine.Static(invoice.PublicPrefix, cfg.InvoiceDir)

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	invoiceHandler := handlers.NewInvoiceHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	licenseHandler := handlers.NewLicenseHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	authRequired := middleware.AuthRequired(facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	orders := api.Group("/orders")
	orders.POST("",
		middleware.OptionalAuth(facade),
		idempotency.Middleware(guard, checkoutScope, cfg.IdempotencyTTL, logger),
		orderHandler.Place,
	)
	orders.GET("", orderHandler.List)
	orders.POST("/track", orderHandler.Track)
	orders.GET("/:id", orderHandler.Get)
	orders.PATCH("/:id/status", orderHandler.UpdateStatus)
	orders.GET("/:id/invoice", invoiceHandler.Download)
	orders.POST("/:id/invoice/regenerate", invoiceHandler.Regenerate)

	api.GET("/my-orders", authRequired, orderHandler.Mine)

	admin := api.Group("/admin", authRequired, middleware.AdminRequired())
	admin.DELETE("/orders/:id", orderHandler.Delete)
	admin.POST("/products/:id/restock", catalogHandler.Restock)

	api.GET("/products", catalogHandler.Products)
	api.GET("/products/:id", catalogHandler.Product)
	api.GET("/products/:id/stock", catalogHandler.Stock)
	api.GET("/packages", catalogHandler.Packages)
	api.GET("/packages/:id", catalogHandler.Package)
	api.GET("/garages", catalogHandler.Garages)
	api.GET("/garages/:id", catalogHandler.Garage)

	licenses := api.Group("/licenses")
	licenses.GET("/vehicle/:registration", licenseHandler.ByVehicle)
	licenses.GET("/check/:registration", licenseHandler.Check)
	licenses.GET("/renewal-price", licenseHandler.RenewalPrice)
	licenses.POST("/activate", licenseHandler.Activate)
	licenses.POST("/:id/renew", licenseHandler.Renew)

	return engine
}
