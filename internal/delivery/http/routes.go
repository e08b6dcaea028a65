package http

import (
	"github.com/dealscout/backend/config"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, limiter *IPRateLimiter) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	if limiter != nil {
		v1.Use(limiter.Middleware())
	}
	{
		v1.POST("/search", handler.Search)
		v1.POST("/track", handler.Track)
		v1.GET("/deeplink", handler.DeepLink)
	}

	return router
}
