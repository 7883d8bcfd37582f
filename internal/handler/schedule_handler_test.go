package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"operation-hours/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// TestUpdateSchedule_RoundTrip tests storing and reading back a schedule
func TestUpdateSchedule_RoundTrip(t *testing.T) {
	server := setupServer(t)

	days := map[string]services.DayRuleInput{}
	for _, weekday := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"} {
		days[weekday] = services.DayRuleInput{From: "08:00", To: "18:00"}
	}
	days["sunday"] = services.DayRuleInput{Closed: true}

	input := services.ScheduleInput{
		Seasons: []services.SeasonInput{{Name: "summer", Begin: "05/01", Days: days}},
		Exceptions: []services.ExceptionInput{
			{Day: "25/12/2024", Status: false},
		},
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPut, "/api/schedule", input)

	server.UpdateSchedule(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/schedule", nil)

	server.GetSchedule(c)
	require.Equal(t, http.StatusOK, w.Code)

	var stored services.ScheduleInput
	decodeData(t, w.Body.Bytes(), &stored)

	require.Len(t, stored.Seasons, 1)
	assert.Equal(t, "summer", stored.Seasons[0].Name)
	assert.True(t, stored.Seasons[0].Days["sunday"].Closed)
	require.Len(t, stored.Exceptions, 1)
	assert.Equal(t, "25/12/2024", stored.Exceptions[0].Day)
}

// TestUpdateSchedule_ValidationFailure tests the error envelope for rejected
// configurations
func TestUpdateSchedule_ValidationFailure(t *testing.T) {
	server := setupServer(t)

	days := map[string]services.DayRuleInput{
		"monday": {From: "18:00", To: "08:00"},
	}
	input := services.ScheduleInput{
		Seasons: []services.SeasonInput{{Name: "broken", Begin: "05/01", Days: days}},
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPut, "/api/schedule", input)

	server.UpdateSchedule(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "VALIDATION_FAILED", errResp.Code)
	assert.NotEmpty(t, errResp.Message)
}

// TestUpdateSchedule_InvalidJSON tests malformed payloads
func TestUpdateSchedule_InvalidJSON(t *testing.T) {
	server := setupServer(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/schedule", bytes.NewReader([]byte("{not json")))
	c.Request.Header.Set("Content-Type", "application/json")

	server.UpdateSchedule(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var errResp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "INVALID_JSON", errResp.Code)
}

// TestGetSchedule_Empty tests reading a fresh install
func TestGetSchedule_Empty(t *testing.T) {
	server := setupServer(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/schedule", nil)

	server.GetSchedule(c)
	require.Equal(t, http.StatusOK, w.Code)

	var stored services.ScheduleInput
	decodeData(t, w.Body.Bytes(), &stored)
	assert.Empty(t, stored.Seasons)
	assert.Empty(t, stored.Exceptions)
}
