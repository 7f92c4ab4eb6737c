package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rpmessner/uzu-parser/internal/api/handlers"
	apimiddleware "github.com/rpmessner/uzu-parser/internal/api/middleware"
	"github.com/rpmessner/uzu-parser/internal/config"
	"github.com/rpmessner/uzu-parser/internal/metrics"
)

func SetupRouter(cfg *config.Config, cloudwatch *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())
	router.Use(apimiddleware.CloudWatchMetrics(cloudwatch))

	// CORS for browser-based editors
	router.Use(apimiddleware.CORS(cfg.CORSAllowedOrigins))

	// Health check
	healthHandler := handlers.NewHealthHandler(cfg)
	router.GET("/health", healthHandler.HealthCheck)

	// Parse counters shared by the parse handlers and the metrics endpoint
	stats := metrics.NewParseStats()
	metricsHandler := handlers.NewMetricsHandler(cfg, stats, version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	v1 := router.Group("/api/v1")
	{
		parseHandler := handlers.NewParseHandler(cfg, cloudwatch, stats)
		v1.POST("/parse", parseHandler.Parse)

		sheetHandler := handlers.NewSheetHandler(cfg, cloudwatch, stats)
		v1.POST("/sheet", sheetHandler.Parse)

		v1.GET("/euclid", handlers.Euclid)
	}

	return router
}
