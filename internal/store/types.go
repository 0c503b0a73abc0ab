package store

import (
	"time"

	"github.com/google/uuid"

	"routelogix-backend/internal/hos"
	"routelogix-backend/internal/model"
)

// NewTripRecord assembles the persistent representation of a freshly
// planned trip: the trip row, its daily logs with entries, its route
// stops, and any violations the detector reported.
func NewTripRecord(params hos.TripParams, schedule *hos.Schedule, violations []hos.Violation) *model.Trip {
	trip := &model.Trip{
		ID:                    uuid.NewString(),
		Status:                model.TripPlanning,
		CurrentLocation:       params.CurrentLocation,
		PickupLocation:        params.PickupLocation,
		DropoffLocation:       params.DropoffLocation,
		TotalDistanceMiles:    params.DistanceMiles,
		EstimatedDrivingHours: schedule.Summary.TotalDrivingHours,
		CycleType:             string(params.Cycle),
		PlannedStartTime:      params.Start,
		CycleHoursUsed:        schedule.Summary.CycleHoursUsed,
		CycleHoursRemaining:   schedule.Summary.CycleHoursRemaining,
		TripDurationDays:      schedule.Summary.TripDurationDays,
	}

	for _, day := range schedule.Days {
		dl := model.DailyLog{
			ID:               uuid.NewString(),
			TripID:           trip.ID,
			LogDate:          day.Date,
			TotalDrivingTime: day.Totals.Driving,
			TotalOnDutyTime:  day.Totals.OnDuty,
			TotalSleeperTime: day.Totals.Sleeper,
			TotalOffDutyTime: day.Totals.OffDuty,
			CycleHoursUsed:   float64(day.CycleUsed) / 60,
		}
		for _, p := range day.Periods {
			dl.Entries = append(dl.Entries, model.LogEntry{
				ID:              uuid.NewString(),
				DailyLogID:      dl.ID,
				Status:          string(p.Status),
				StartTime:       p.Start,
				EndTime:         p.End,
				DurationMinutes: p.Minutes(),
				Location:        p.Location,
				Remarks:         p.Remarks,
				MilesAtStart:    p.MilesAtStart,
			})
		}
		trip.DailyLogs = append(trip.DailyLogs, dl)
	}

	trip.RouteStops = routeStops(trip.ID, params, schedule)
	trip.Violations = ViolationRecords(trip.ID, trip.DailyLogs, violations)
	for _, v := range trip.Violations {
		markViolated(trip.DailyLogs, v.DailyLogID)
	}

	return trip
}

func markViolated(logs []model.DailyLog, logID string) {
	for i := range logs {
		if logs[i].ID == logID {
			logs[i].HasViolations = true
			return
		}
	}
}

// routeStops derives the ordered stop markers for a schedule: pickup,
// every fuel stop and mandatory rest in chronological order, then dropoff.
func routeStops(tripID string, params hos.TripParams, schedule *hos.Schedule) []model.RouteStop {
	var stops []model.RouteStop
	add := func(t model.StopType, location string, mile float64, at time.Time, minutes int) {
		stops = append(stops, model.RouteStop{
			ID:                uuid.NewString(),
			TripID:            tripID,
			Type:              t,
			Location:          location,
			DistanceFromStart: mile,
			Seq:               len(stops),
			EstimatedArrival:  at,
			DurationMinutes:   minutes,
		})
	}

	add(model.StopPickup, params.PickupLocation, 0, params.Start, 0)
	fi, ri := 0, 0
	for fi < len(schedule.FuelStops) || ri < len(schedule.RestStops) {
		if ri >= len(schedule.RestStops) ||
			(fi < len(schedule.FuelStops) && !schedule.FuelStops[fi].Time.After(schedule.RestStops[ri].Time)) {
			fs := schedule.FuelStops[fi]
			add(model.StopFuel, fs.Location, fs.Mile, fs.Time, 0)
			fi++
			continue
		}
		rs := schedule.RestStops[ri]
		t := model.StopRest
		minutes := hos.RestMinutes
		if rs.Restart {
			t = model.StopRestart
			minutes = hos.RestartMinutes
		}
		add(t, rs.Location, rs.Mile, rs.Time, minutes)
		ri++
	}
	add(model.StopDropoff, params.DropoffLocation, params.DistanceMiles, dropoffTime(schedule), 0)

	return stops
}

// dropoffTime finds when the dropoff service period begins.
func dropoffTime(schedule *hos.Schedule) time.Time {
	for i := len(schedule.Days) - 1; i >= 0; i-- {
		for j := len(schedule.Days[i].Periods) - 1; j >= 0; j-- {
			p := schedule.Days[i].Periods[j]
			if p.Remarks == "Dropoff" {
				return p.Start
			}
		}
	}
	if n := len(schedule.Days); n > 0 {
		return schedule.Days[n-1].Date
	}
	return time.Time{}
}

// DaysFromLogs converts stored daily logs (including manual entries) back
// into the planner's day representation so the violation detector can run
// on them. Logs must be ordered by date, entries by start time.
func DaysFromLogs(logs []model.DailyLog) []hos.Day {
	days := make([]hos.Day, 0, len(logs))
	for _, dl := range logs {
		day := hos.Day{Date: dl.LogDate}
		for _, e := range dl.Entries {
			p := hos.Period{
				Status:       hos.DutyStatus(e.Status),
				Start:        e.StartTime,
				End:          e.EndTime,
				Location:     e.Location,
				Remarks:      e.Remarks,
				MilesAtStart: e.MilesAtStart,
			}
			day.Periods = append(day.Periods, p)
			day.Totals = addTotal(day.Totals, p)
		}
		days = append(days, day)
	}
	return days
}

func addTotal(t hos.Totals, p hos.Period) hos.Totals {
	switch p.Status {
	case hos.StatusDriving:
		t.Driving += p.Minutes()
	case hos.StatusOnDuty:
		t.OnDuty += p.Minutes()
	case hos.StatusSleeper:
		t.Sleeper += p.Minutes()
	case hos.StatusOffDuty:
		t.OffDuty += p.Minutes()
	}
	return t
}

// ViolationRecords converts detector findings into rows for the given
// trip, resolving day indexes to daily-log IDs. Logs must be ordered by
// date.
func ViolationRecords(tripID string, logs []model.DailyLog, violations []hos.Violation) []model.HOSViolation {
	rows := make([]model.HOSViolation, 0, len(violations))
	for _, v := range violations {
		logID := ""
		if v.DayIndex >= 0 && v.DayIndex < len(logs) {
			logID = logs[v.DayIndex].ID
		}
		rows = append(rows, model.HOSViolation{
			ID:            uuid.NewString(),
			TripID:        tripID,
			DailyLogID:    logID,
			ViolationType: string(v.Type),
			Severity:      string(v.Severity),
			Description:   v.Description,
			Value:         v.Value,
			Limit:         v.Limit,
		})
	}
	return rows
}
