package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routelogix-backend/internal/hos"
	"routelogix-backend/internal/model"
)

type gridResponse struct {
	LogID   string     `json:"log_id"`
	TripID  string     `json:"trip_id"`
	LogDate string     `json:"log_date"`
	Slots   []string   `json:"slots"`
	Totals  hos.Totals `json:"totals"`
}

func TestGetLogGrid(t *testing.T) {
	router, _ := newTestRouter(t)

	trip := planTripViaAPI(t, router, 500, 9)
	require.NotEmpty(t, trip.DailyLogs)
	logID := trip.DailyLogs[0].ID

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/logs/"+logID+"/grid", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var grid gridResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grid))

	assert.Equal(t, logID, grid.LogID)
	assert.Equal(t, trip.ID, grid.TripID)
	assert.Equal(t, "2025-03-10", grid.LogDate)
	require.Len(t, grid.Slots, hos.GridSlots)

	// Slot and entry totals must describe the same full day.
	assert.Equal(t, 1440, grid.Totals.Sum())
	assert.Equal(t, trip.DailyLogs[0].TotalDrivingTime, grid.Totals.Driving)

	// The trip starts at 08:00; the night before is off duty.
	assert.Equal(t, string(hos.StatusOffDuty), grid.Slots[0])
}

func TestGetLogGrid_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/logs/00000000-0000-0000-0000-000000000000/grid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostLogEntry(t *testing.T) {
	router, _ := newTestRouter(t)

	trip := planTripViaAPI(t, router, 500, 9)
	logID := trip.DailyLogs[0].ID

	w := postJSON(t, router, "/api/logs/"+logID+"/entries", gin.H{
		"status":     "driving",
		"start_time": "20:00",
		"end_time":   "23:00",
		"location":   "I-76",
		"remarks":    "Extra leg",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Entry      model.LogEntry       `json:"entry"`
		DailyLog   model.DailyLog       `json:"daily_log"`
		Violations []model.HOSViolation `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Entry.IsManual)
	assert.Equal(t, 180, resp.Entry.DurationMinutes)
	assert.Equal(t, 540+180, resp.DailyLog.TotalDrivingTime)

	// Three extra driving hours push the day over the daily driving limit.
	require.NotEmpty(t, resp.Violations)
	types := make([]string, len(resp.Violations))
	for i, v := range resp.Violations {
		types[i] = v.ViolationType
	}
	assert.Contains(t, types, string(hos.ViolationDailyDriving))

	// The findings are persisted and visible on the violations endpoint.
	w2 := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/trips/"+trip.ID+"/violations", nil)
	router.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)

	var stored []model.HOSViolation
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &stored))
	assert.Len(t, stored, len(resp.Violations))
}

func TestPostLogEntry_BadRequest(t *testing.T) {
	router, _ := newTestRouter(t)

	trip := planTripViaAPI(t, router, 500, 9)
	logID := trip.DailyLogs[0].ID

	testCases := []struct {
		name string
		body gin.H
	}{
		{
			name: "unknown status",
			body: gin.H{"status": "napping", "start_time": "10:00", "end_time": "11:00"},
		},
		{
			name: "unparseable time",
			body: gin.H{"status": "driving", "start_time": "25:99", "end_time": "11:00"},
		},
		{
			name: "end before start",
			body: gin.H{"status": "driving", "start_time": "11:00", "end_time": "10:00"},
		},
		{
			name: "missing fields",
			body: gin.H{"status": "driving"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, router, "/api/logs/"+logID+"/entries", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestPostLogEntry_EndOfDay(t *testing.T) {
	router, _ := newTestRouter(t)

	trip := planTripViaAPI(t, router, 500, 9)
	logID := trip.DailyLogs[0].ID

	// "24:00" is the exclusive end of the day.
	w := postJSON(t, router, "/api/logs/"+logID+"/entries", gin.H{
		"status":     "off_duty",
		"start_time": "23:00",
		"end_time":   "24:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Entry model.LogEntry `json:"entry"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 60, resp.Entry.DurationMinutes)
}
