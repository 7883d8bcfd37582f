// Package handler contains the HTTP handlers for the operation hours API.
package handler

import (
	"net/http"
	"time"

	"operation-hours/internal/services"
	"operation-hours/internal/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Server holds the handler dependencies.
type Server struct {
	DB                *gorm.DB
	ScheduleService   *services.ScheduleService
	DisplayService    *services.DisplayService
	StateCheckService *services.StateCheckService
	config            types.ConfigManager
}

// NewServer creates a new handler server.
func NewServer(
	db *gorm.DB,
	configManager types.ConfigManager,
	scheduleService *services.ScheduleService,
	displayService *services.DisplayService,
	stateCheckService *services.StateCheckService,
) *Server {
	return &Server{
		DB:                db,
		ScheduleService:   scheduleService,
		DisplayService:    displayService,
		StateCheckService: stateCheckService,
		config:            configManager,
	}
}

// Health handles the GET /health request. It reports database connectivity
// and process uptime; a failing database ping makes the check unhealthy.
func (s *Server) Health(c *gin.Context) {
	dbStatus := "ok"
	healthy := true

	if s.DB != nil {
		sqlDB, err := s.DB.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			dbStatus = "unavailable"
			healthy = false
		}
	}

	uptime := "unknown"
	if startTime, exists := c.Get("serverStartTime"); exists {
		if start, ok := startTime.(time.Time); ok {
			uptime = time.Since(start).Round(time.Second).String()
		}
	}

	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    uptime,
	})
}
