package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/fulfillsync/internal/server/http/dto"
	"github.com/polkiloo/fulfillsync/internal/server/http/handlers"
	"github.com/polkiloo/fulfillsync/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.Facade, pinger handlers.Pinger, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest(handlers.MaxWebhookBody))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.ErrorResponse{Error: "Method not allowed."})
	})
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Not found."})
	})

	webhookHandler := handlers.NewWebhookHandler(facade)
	statusHandler := handlers.NewStatusHandler(facade)
	verificationHandler := handlers.NewVerificationHandler(facade)
	healthHandler := handlers.NewHealthHandler(pinger)

	engine.GET("/healthz", healthHandler.Check)

	api := engine.Group("/api")
	api.POST("/webhooks/payment", webhookHandler.Payment)

	orders := api.Group("/orders")
	orders.Use(middleware.VerificationToken())
	orders.GET("/status", statusHandler.Get)
	orders.POST("/verification", verificationHandler.Start)
	orders.POST("/verification/confirm", verificationHandler.Confirm)

	return engine
}
