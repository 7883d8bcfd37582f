package handler

import (
	app_errors "operation-hours/internal/errors"
	"operation-hours/internal/response"
	"operation-hours/internal/schedule"
	"operation-hours/internal/state"

	"github.com/gin-gonic/gin"
)

// HoursResponse is the payload for the public hours endpoint. When no open
// day exists within the search horizon, Available is false and the window
// fields are omitted.
type HoursResponse struct {
	Available bool              `json:"available"`
	Day       string            `json:"day,omitempty"`
	DayToken  string            `json:"day_token,omitempty"`
	From      string            `json:"from,omitempty"`
	To        string            `json:"to,omitempty"`
	OpenNow   bool              `json:"open_now"`
	Display   map[string]string `json:"display"`
}

// GetHours handles the GET /api/hours request. It resolves the current or
// next open window and attaches the display metadata.
func (s *Server) GetHours(c *gin.Context) {
	result, found, now, err := s.ScheduleService.ResolveNow()
	if err != nil && !schedule.IsNotConfigured(err) {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrScheduleConfig, err.Error()))
		return
	}

	display, dispErr := s.DisplayService.GetSettings()
	if dispErr != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrDatabase, dispErr.Error()))
		return
	}

	resp := HoursResponse{Display: display}
	// A schedule with no seasons resolves like an exhausted horizon: no
	// window to announce, but the endpoint stays up.
	if err == nil && found {
		resp.Available = true
		resp.Day = result.Day.Format("2006-01-02")
		resp.DayToken = state.DayToken(result.Day, now)
		resp.From = result.From.String()
		resp.To = result.To.String()
		resp.OpenNow = result.OpenAt(now)
	}

	response.Success(c, resp)
}

// CheckStateResponse reports the outcome of a forced state check.
type CheckStateResponse struct {
	Changed bool `json:"changed"`
}

// CheckState handles the POST /api/hours/check request. It forces an
// immediate fingerprint comparison instead of waiting for the next tick of
// the background checker.
func (s *Server) CheckState(c *gin.Context) {
	changed, err := s.StateCheckService.RunOnce()
	if err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrScheduleConfig, err.Error()))
		return
	}
	response.Success(c, CheckStateResponse{Changed: changed})
}
