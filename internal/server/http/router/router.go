package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/shopflow/ordercore/internal/config"
	"github.com/shopflow/ordercore/internal/server/http/handlers"
	"github.com/shopflow/ordercore/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CommerceFacade, cfg *config.Config, rdb *redis.Client, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	cartHandler := handlers.NewCartHandler(facade)

	throttle := middleware.RateLimit(rdb, cfg.RateLimitPerMin, time.Minute)

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	products := api.Group("/products")
	products.GET("", catalogHandler.List)
	products.GET("/:id", catalogHandler.Get)
	products.POST("", middleware.AuthRequired(facade), catalogHandler.Create)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))

	authed.GET("/cart", cartHandler.Get)
	authed.PUT("/cart", cartHandler.Replace)

	orders := authed.Group("/orders")
	orders.POST("", throttle, orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/myorders", orderHandler.MyOrders)
	orders.GET("/seller", orderHandler.SellerOrders)
	orders.GET("/:id", orderHandler.Get)
	orders.GET("/:id/payments", paymentHandler.Attempts)
	orders.PUT("/:id/pay", throttle, orderHandler.Pay)
	orders.PUT("/:id/cancel", orderHandler.Cancel)
	orders.PUT("/:id/deliver", orderHandler.Deliver)
	orders.PUT("/:id/status", orderHandler.UpdateStatus)

	payment := authed.Group("/payment")
	payment.POST("/intent", throttle, paymentHandler.CreateIntent)
	payment.POST("/refund", paymentHandler.Refund)

	return engine
}
