package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"routelogix-backend/internal/db"
	"routelogix-backend/internal/hos"
	"routelogix-backend/internal/model"
)

// newTestStore opens an isolated in-memory SQLite database and runs the
// schema migration against it.
func newTestStore(t *testing.T) Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})

	require.NoError(t, db.Migrate(gormDB))
	return NewGormStore(gormDB)
}

func planTestTrip(t *testing.T, miles, hours float64) (hos.TripParams, *hos.Schedule) {
	t.Helper()

	params := hos.TripParams{
		CurrentLocation: "Chicago, IL",
		PickupLocation:  "Chicago, IL",
		DropoffLocation: "Denver, CO",
		Cycle:           hos.Cycle70_8,
		DistanceMiles:   miles,
		DrivingHours:    hours,
		Start:           time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
	}
	schedule, err := hos.NewPlanner(hos.Options{}).Build(params)
	require.NoError(t, err)
	return params, schedule
}

func TestSaveTripPlanAndGetTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	params, schedule := planTestTrip(t, 500, 9)
	trip := NewTripRecord(params, schedule, nil)
	require.NoError(t, s.SaveTripPlan(ctx, trip))

	loaded, err := s.GetTrip(ctx, trip.ID)
	require.NoError(t, err)

	assert.Equal(t, model.TripPlanning, loaded.Status)
	assert.Equal(t, "Denver, CO", loaded.DropoffLocation)
	assert.Len(t, loaded.DailyLogs, len(schedule.Days))
	assert.Empty(t, loaded.Violations)

	// Every generated log accounts for a full day.
	for _, dl := range loaded.DailyLogs {
		assert.Equal(t, 1440, dl.TotalMinutes())
		assert.NotEmpty(t, dl.Entries)
	}

	// Stops bracket the route: pickup first, dropoff last.
	require.NotEmpty(t, loaded.RouteStops)
	assert.Equal(t, model.StopPickup, loaded.RouteStops[0].Type)
	assert.Equal(t, model.StopDropoff, loaded.RouteStops[len(loaded.RouteStops)-1].Type)
	for i, stop := range loaded.RouteStops {
		assert.Equal(t, i, stop.Seq)
	}
}

func TestGetTrip_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTrip(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetDailyLog(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	params, schedule := planTestTrip(t, 300, 5)
	require.NoError(t, s.SaveTripPlan(ctx, NewTripRecord(params, schedule, nil)))
	require.NoError(t, s.SaveTripPlan(ctx, NewTripRecord(params, schedule, nil)))

	trips, err := s.ListTrips(ctx)
	require.NoError(t, err)
	assert.Len(t, trips, 2)
}

func TestAppendLogEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	params, schedule := planTestTrip(t, 500, 9)
	trip := NewTripRecord(params, schedule, nil)
	require.NoError(t, s.SaveTripPlan(ctx, trip))

	logID := trip.DailyLogs[0].ID
	before, err := s.GetDailyLog(ctx, logID)
	require.NoError(t, err)

	day := before.LogDate
	entry := &model.LogEntry{
		ID:              uuid.NewString(),
		Status:          "driving",
		StartTime:       time.Date(day.Year(), day.Month(), day.Day(), 22, 0, 0, 0, time.UTC),
		EndTime:         time.Date(day.Year(), day.Month(), day.Day(), 23, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Location:        "I-80 rest area",
		Remarks:         "Repositioning",
	}

	after, err := s.AppendLogEntry(ctx, logID, entry)
	require.NoError(t, err)

	assert.Equal(t, before.TotalDrivingTime+60, after.TotalDrivingTime)
	assert.Len(t, after.Entries, len(before.Entries)+1)

	var manual *model.LogEntry
	for i := range after.Entries {
		if after.Entries[i].ID == entry.ID {
			manual = &after.Entries[i]
		}
	}
	require.NotNil(t, manual)
	assert.True(t, manual.IsManual)

	// The owning trip is flagged for re-audit.
	flagged, err := s.TripsNeedingAudit(ctx)
	require.NoError(t, err)
	require.Len(t, flagged, 1)
	assert.Equal(t, trip.ID, flagged[0].ID)

	require.NoError(t, s.ClearAuditFlag(ctx, trip.ID))
	flagged, err = s.TripsNeedingAudit(ctx)
	require.NoError(t, err)
	assert.Empty(t, flagged)
}

func TestAppendLogEntry_UnknownLog(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AppendLogEntry(context.Background(), uuid.NewString(), &model.LogEntry{
		ID:     uuid.NewString(),
		Status: "off_duty",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceTripViolations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	params, schedule := planTestTrip(t, 500, 9)
	trip := NewTripRecord(params, schedule, nil)
	require.NoError(t, s.SaveTripPlan(ctx, trip))

	logID := trip.DailyLogs[0].ID
	rows := []model.HOSViolation{{
		ID:            uuid.NewString(),
		TripID:        trip.ID,
		DailyLogID:    logID,
		ViolationType: string(hos.ViolationDailyDriving),
		Severity:      string(hos.SeverityViolation),
		Description:   "daily driving limit exceeded",
		Value:         700,
		Limit:         660,
	}}
	require.NoError(t, s.ReplaceTripViolations(ctx, trip.ID, rows))

	stored, err := s.TripViolations(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, string(hos.ViolationDailyDriving), stored[0].ViolationType)

	dl, err := s.GetDailyLog(ctx, logID)
	require.NoError(t, err)
	assert.True(t, dl.HasViolations)

	// A clean re-check clears both the rows and the flags.
	require.NoError(t, s.ReplaceTripViolations(ctx, trip.ID, nil))
	stored, err = s.TripViolations(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)

	dl, err = s.GetDailyLog(ctx, logID)
	require.NoError(t, err)
	assert.False(t, dl.HasViolations)
}

func TestDaysFromLogsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	params, schedule := planTestTrip(t, 1200, 20)
	trip := NewTripRecord(params, schedule, nil)
	require.NoError(t, s.SaveTripPlan(ctx, trip))

	logs, err := s.TripLogs(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, logs, len(schedule.Days))

	days := DaysFromLogs(logs)
	require.Len(t, days, len(schedule.Days))
	for i, day := range days {
		assert.Equal(t, schedule.Days[i].Totals, day.Totals)
		assert.Len(t, day.Periods, len(schedule.Days[i].Periods))
	}

	// Rebuilt days still pass a compliance check.
	assert.Empty(t, hos.Check(days, params.Cycle))
}
