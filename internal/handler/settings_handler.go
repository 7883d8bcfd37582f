package handler

import (
	app_errors "operation-hours/internal/errors"
	"operation-hours/internal/response"

	"github.com/gin-gonic/gin"
)

// GetSettings handles the GET /api/settings request. It returns the display
// metadata shown next to the computed hours.
func (s *Server) GetSettings(c *gin.Context) {
	settings, err := s.DisplayService.GetSettings()
	if err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrDatabase, err.Error()))
		return
	}
	response.Success(c, settings)
}

// UpdateSettings handles the PUT /api/settings request.
func (s *Server) UpdateSettings(c *gin.Context) {
	var settings map[string]string
	if err := c.ShouldBindJSON(&settings); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	if len(settings) == 0 {
		response.Success(c, nil)
		return
	}

	if err := s.DisplayService.UpdateSettings(settings); err != nil {
		response.Error(c, app_errors.NewValidationError(err.Error()))
		return
	}

	updated, err := s.DisplayService.GetSettings()
	if err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrDatabase, err.Error()))
		return
	}
	response.Success(c, updated)
}
