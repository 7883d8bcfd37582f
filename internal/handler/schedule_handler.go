package handler

import (
	app_errors "operation-hours/internal/errors"
	"operation-hours/internal/response"
	"operation-hours/internal/services"

	"github.com/gin-gonic/gin"
)

// GetSchedule handles the GET /api/schedule request. It returns the stored
// seasons and exceptions in wire form.
func (s *Server) GetSchedule(c *gin.Context) {
	scheduleConfig, err := s.ScheduleService.GetSchedule()
	if err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrDatabase, err.Error()))
		return
	}
	response.Success(c, scheduleConfig)
}

// UpdateSchedule handles the PUT /api/schedule request. The submitted
// configuration replaces the stored one atomically; validation failures
// leave the stored schedule untouched.
func (s *Server) UpdateSchedule(c *gin.Context) {
	var input services.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	if err := s.ScheduleService.UpdateSchedule(&input); err != nil {
		response.Error(c, app_errors.NewValidationError(err.Error()))
		return
	}

	scheduleConfig, err := s.ScheduleService.GetSchedule()
	if err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrDatabase, err.Error()))
		return
	}
	response.Success(c, scheduleConfig)
}
