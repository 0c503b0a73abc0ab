package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"routelogix-backend/config"
	"routelogix-backend/internal/api"
	"routelogix-backend/internal/audit"
	"routelogix-backend/internal/db"
	"routelogix-backend/internal/hos"
	"routelogix-backend/internal/model"
	"routelogix-backend/internal/store"
)

// TestTripLifecycle drives the full planning flow over HTTP: plan a
// multi-day trip, inspect its schedule and grid, append a manual entry
// that breaks compliance and watch the violation surface.
func TestTripLifecycle(t *testing.T) {
	// --- Test Setup ---

	// 1. Setup an in-memory SQLite database for testing.
	testDB, err := gorm.Open(sqlite.Open("file:lifecycle?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to the in-memory database: %v", err)
	}
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	// Run database migrations.
	require.NoError(t, db.Migrate(testDB))

	// 2. Create a test configuration.
	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 60
	cfg.Push.PublicKey = "test-public-key"
	cfg.WorkerPool.Size = 4
	cfg.Audit.Enabled = true
	cfg.Audit.Interval = time.Hour

	// 3. Wire the stack.
	gin.SetMode(gin.TestMode)
	appStore := store.NewGormStore(testDB)
	auditor := audit.NewService(cfg, appStore)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	auditor.Pool().Start(ctx)

	router := api.NewRouter(cfg, appStore, auditor)

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var reader *bytes.Reader
		if body != nil {
			raw, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		} else {
			reader = bytes.NewReader(nil)
		}
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	// --- Step 1: Plan a two-day trip with a mid-route fuel stop. ---
	w := do(http.MethodPost, "/api/trips", gin.H{
		"current_location":        "Chicago, IL",
		"pickup_location":         "Chicago, IL",
		"dropoff_location":        "Phoenix, AZ",
		"total_distance_miles":    1200,
		"estimated_driving_hours": 20,
		"cycle_type":              "60_7",
		"planned_start_time":      time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var trip model.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trip))
	require.NotEmpty(t, trip.ID)
	assert.GreaterOrEqual(t, trip.TripDurationDays, 2)
	assert.Empty(t, trip.Violations)

	var fuelStops, restStops int
	for _, stop := range trip.RouteStops {
		switch stop.Type {
		case model.StopFuel:
			fuelStops++
		case model.StopRest:
			restStops++
		}
	}
	assert.Equal(t, 1, fuelStops)
	assert.GreaterOrEqual(t, restStops, 1)

	// --- Step 2: The schedule renders as a clean daily grid. ---
	logID := trip.DailyLogs[0].ID
	w = do(http.MethodGet, "/api/logs/"+logID+"/grid", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var grid struct {
		Slots  []string   `json:"slots"`
		Totals hos.Totals `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grid))
	require.Len(t, grid.Slots, hos.GridSlots)
	assert.Equal(t, 1440, grid.Totals.Sum())

	// --- Step 3: A manual evening drive breaks the daily limit. ---
	w = do(http.MethodPost, "/api/logs/"+logID+"/entries", gin.H{
		"status":     "driving",
		"start_time": "21:00",
		"end_time":   "23:30",
		"location":   "I-44",
		"remarks":    "Unplanned detour",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var entryResp struct {
		Violations []model.HOSViolation `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entryResp))
	require.NotEmpty(t, entryResp.Violations)

	// --- Step 4: The violation is persisted on the trip. ---
	w = do(http.MethodGet, "/api/trips/"+trip.ID+"/violations", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stored []model.HOSViolation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	require.NotEmpty(t, stored)

	types := make([]string, len(stored))
	for i, v := range stored {
		types[i] = v.ViolationType
	}
	assert.Contains(t, types, string(hos.ViolationDailyDriving))

	// --- Step 5: The edited log is flagged when the trip is re-read. ---
	w = do(http.MethodGet, "/api/trips/"+trip.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded model.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reloaded))
	var flagged bool
	for _, dl := range reloaded.DailyLogs {
		if dl.ID == logID {
			flagged = dl.HasViolations
		}
	}
	assert.True(t, flagged)

	// The synchronous re-check already cleared the audit flag, so a
	// background pass finds nothing left to do.
	auditor.AuditOnce(ctx)
	remaining, err := appStore.TripsNeedingAudit(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
