// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/zksub/zksub-backend/internal/config"
	"github.com/zksub/zksub-backend/internal/handlers"
	"github.com/zksub/zksub-backend/internal/intmax"
	"github.com/zksub/zksub-backend/internal/middleware"
	"github.com/zksub/zksub-backend/internal/services"
	"github.com/zksub/zksub-backend/internal/store"
)

func Initialize(cfg *config.Config, contentStore store.ContentStore, ledger store.SubscriptionLedger, client intmax.Client) (*gin.Engine, error) {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	contentService := services.NewContentService(contentStore, storageService)
	subscriptionService := services.NewSubscriptionService(ledger, time.Duration(cfg.Subscription.Duration)*time.Second)
	paymentService := services.NewPaymentService(client, subscriptionService, cfg.IntMax)

	// Initialize handlers
	contentHandler := handlers.NewContentHandler(contentService, cfg.Storage.MaxUploadSize)
	subscriptionHandler := handlers.NewSubscriptionHandler(paymentService, subscriptionService)

	// Rate limiters are per engine, not process-global
	generalLimiter := middleware.NewRateLimiter(rate.Every(time.Second), 50)
	uploadLimiter := middleware.NewRateLimiter(rate.Every(time.Minute), 10)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.Origin))
	r.Use(middleware.Metrics())
	r.Use(generalLimiter.Middleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Prometheus exposition
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded assets are served from the same process
	r.Static("/public", cfg.Storage.PublicDir)

	// Content routes
	r.POST("/upload-content", uploadLimiter.Middleware(), contentHandler.UploadContent)
	r.GET("/contents", contentHandler.ListContents)
	r.GET("/contents/:address", contentHandler.ListByCreator)
	r.DELETE("/content/:id", contentHandler.DeleteContent)

	// Subscription routes
	r.POST("/validate-payment", subscriptionHandler.ValidatePayment)
	r.GET("/subscriptions/:address", subscriptionHandler.ListSubscriptions)

	return r, nil
}
