// Package router wires the HTTP routes and global middleware.
package router

import (
	"net/http"
	"time"

	"operation-hours/internal/handler"
	"operation-hours/internal/middleware"
	"operation-hours/internal/types"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with all middleware and routes registered.
func NewRouter(
	serverHandler *handler.Server,
	configManager types.ConfigManager,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Register global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(configManager.GetLogConfig()))
	router.Use(middleware.CORS(configManager.GetCORSConfig()))
	router.Use(middleware.RateLimiter(configManager.GetPerformanceConfig()))
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	startTime := time.Now()
	router.Use(func(c *gin.Context) {
		c.Set("serverStartTime", startTime)
		c.Next()
	})

	registerSystemRoutes(router, serverHandler)
	registerAPIRoutes(router, serverHandler, configManager)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})

	return router
}

// registerSystemRoutes registers system-level routes
func registerSystemRoutes(router *gin.Engine, serverHandler *handler.Server) {
	router.GET("/health", serverHandler.Health)
}

// registerAPIRoutes registers API routes
func registerAPIRoutes(
	router *gin.Engine,
	serverHandler *handler.Server,
	configManager types.ConfigManager,
) {
	api := router.Group("/api")

	// Public routes
	api.GET("/hours", serverHandler.GetHours)

	// Protected routes
	protectedAPI := api.Group("")
	protectedAPI.Use(middleware.Auth(configManager.GetAuthConfig()))

	protectedAPI.POST("/hours/check", serverHandler.CheckState)

	scheduleGroup := protectedAPI.Group("/schedule")
	{
		scheduleGroup.GET("", serverHandler.GetSchedule)
		scheduleGroup.PUT("", serverHandler.UpdateSchedule)
	}

	settings := protectedAPI.Group("/settings")
	{
		settings.GET("", serverHandler.GetSettings)
		settings.PUT("", serverHandler.UpdateSettings)
	}
}
