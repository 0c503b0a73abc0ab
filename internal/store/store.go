package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"routelogix-backend/internal/model"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	SaveTripPlan(ctx context.Context, trip *model.Trip) error
	ListTrips(ctx context.Context) ([]model.Trip, error)
	GetTrip(ctx context.Context, id string) (*model.Trip, error)

	GetDailyLog(ctx context.Context, id string) (*model.DailyLog, error)
	TripLogs(ctx context.Context, tripID string) ([]model.DailyLog, error)
	AppendLogEntry(ctx context.Context, logID string, entry *model.LogEntry) (*model.DailyLog, error)

	TripViolations(ctx context.Context, tripID string) ([]model.HOSViolation, error)
	ReplaceTripViolations(ctx context.Context, tripID string, rows []model.HOSViolation) error

	TripsNeedingAudit(ctx context.Context) ([]model.Trip, error)
	ClearAuditFlag(ctx context.Context, tripID string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// SaveTripPlan persists a planned trip with its logs, entries, stops and
// violations in one transaction. Associations are created through GORM's
// nested-create support.
func (s *gormStore) SaveTripPlan(ctx context.Context, trip *model.Trip) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(trip).Error; err != nil {
			return fmt.Errorf("failed to save trip plan: %w", err)
		}
		return nil
	})
}

// ListTrips returns all trips, newest first, without associations.
func (s *gormStore) ListTrips(ctx context.Context) ([]model.Trip, error) {
	var trips []model.Trip
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&trips).Error; err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return trips, nil
}

// GetTrip loads one trip with its logs, entries, stops and violations.
func (s *gormStore) GetTrip(ctx context.Context, id string) (*model.Trip, error) {
	var trip model.Trip
	err := s.db.WithContext(ctx).
		Preload("DailyLogs", func(db *gorm.DB) *gorm.DB { return db.Order("log_date ASC") }).
		Preload("DailyLogs.Entries", func(db *gorm.DB) *gorm.DB { return db.Order("start_time ASC") }).
		Preload("RouteStops", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Preload("Violations").
		First(&trip, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load trip %s: %w", id, err)
	}
	return &trip, nil
}

// GetDailyLog loads one daily log with its entries ordered by start time.
func (s *gormStore) GetDailyLog(ctx context.Context, id string) (*model.DailyLog, error) {
	var dl model.DailyLog
	err := s.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("start_time ASC") }).
		First(&dl, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load daily log %s: %w", id, err)
	}
	return &dl, nil
}

// TripLogs returns a trip's daily logs with entries, ordered by date.
func (s *gormStore) TripLogs(ctx context.Context, tripID string) ([]model.DailyLog, error) {
	var logs []model.DailyLog
	err := s.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("start_time ASC") }).
		Where("trip_id = ?", tripID).
		Order("log_date ASC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load logs for trip %s: %w", tripID, err)
	}
	return logs, nil
}

// AppendLogEntry inserts a manual entry, recomputes the log's duty totals
// and flags the owning trip for re-audit, all in one transaction. The
// updated log is returned with entries in chronological order.
func (s *gormStore) AppendLogEntry(ctx context.Context, logID string, entry *model.LogEntry) (*model.DailyLog, error) {
	var updated *model.DailyLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dl model.DailyLog
		if err := tx.First(&dl, "id = ?", logID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load daily log %s: %w", logID, err)
		}

		entry.DailyLogID = dl.ID
		entry.IsManual = true
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append log entry: %w", err)
		}

		var entries []model.LogEntry
		if err := tx.Where("daily_log_id = ?", dl.ID).Find(&entries).Error; err != nil {
			return fmt.Errorf("failed to reload entries for log %s: %w", dl.ID, err)
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].StartTime.Before(entries[j].StartTime)
		})

		dl.TotalDrivingTime, dl.TotalOnDutyTime, dl.TotalSleeperTime, dl.TotalOffDutyTime = sumEntries(entries)
		if err := tx.Model(&model.DailyLog{}).Where("id = ?", dl.ID).Updates(map[string]interface{}{
			"total_driving_time":  dl.TotalDrivingTime,
			"total_on_duty_time":  dl.TotalOnDutyTime,
			"total_sleeper_time":  dl.TotalSleeperTime,
			"total_off_duty_time": dl.TotalOffDutyTime,
		}).Error; err != nil {
			return fmt.Errorf("failed to update totals for log %s: %w", dl.ID, err)
		}

		if err := tx.Model(&model.Trip{}).Where("id = ?", dl.TripID).
			Update("needs_audit", true).Error; err != nil {
			return fmt.Errorf("failed to flag trip %s for audit: %w", dl.TripID, err)
		}

		dl.Entries = entries
		updated = &dl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func sumEntries(entries []model.LogEntry) (driving, onDuty, sleeper, offDuty int) {
	for _, e := range entries {
		switch e.Status {
		case "driving":
			driving += e.DurationMinutes
		case "on_duty":
			onDuty += e.DurationMinutes
		case "sleeper":
			sleeper += e.DurationMinutes
		case "off_duty":
			offDuty += e.DurationMinutes
		}
	}
	return
}

// TripViolations returns the stored violations for a trip.
func (s *gormStore) TripViolations(ctx context.Context, tripID string) ([]model.HOSViolation, error) {
	var rows []model.HOSViolation
	err := s.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load violations for trip %s: %w", tripID, err)
	}
	return rows, nil
}

// ReplaceTripViolations swaps a trip's violation set for the detector's
// latest findings and refreshes each daily log's violation flag.
func (s *gormStore) ReplaceTripViolations(ctx context.Context, tripID string, rows []model.HOSViolation) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", tripID).Delete(&model.HOSViolation{}).Error; err != nil {
			return fmt.Errorf("failed to clear violations for trip %s: %w", tripID, err)
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to save violations for trip %s: %w", tripID, err)
			}
		}

		flagged := make([]string, 0, len(rows))
		for _, v := range rows {
			if v.DailyLogID != "" {
				flagged = append(flagged, v.DailyLogID)
			}
		}
		if err := tx.Model(&model.DailyLog{}).Where("trip_id = ?", tripID).
			Update("has_violations", false).Error; err != nil {
			return fmt.Errorf("failed to reset violation flags for trip %s: %w", tripID, err)
		}
		if len(flagged) > 0 {
			if err := tx.Model(&model.DailyLog{}).Where("id IN ?", flagged).
				Update("has_violations", true).Error; err != nil {
				return fmt.Errorf("failed to set violation flags for trip %s: %w", tripID, err)
			}
		}
		return nil
	})
}

// TripsNeedingAudit returns flagged trips with their logs and entries so
// the auditor can re-run detection.
func (s *gormStore) TripsNeedingAudit(ctx context.Context) ([]model.Trip, error) {
	var trips []model.Trip
	err := s.db.WithContext(ctx).
		Preload("DailyLogs", func(db *gorm.DB) *gorm.DB { return db.Order("log_date ASC") }).
		Preload("DailyLogs.Entries", func(db *gorm.DB) *gorm.DB { return db.Order("start_time ASC") }).
		Where("needs_audit = ?", true).
		Find(&trips).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load trips needing audit: %w", err)
	}
	return trips, nil
}

// ClearAuditFlag marks a trip as audited.
func (s *gormStore) ClearAuditFlag(ctx context.Context, tripID string) error {
	if err := s.db.WithContext(ctx).Model(&model.Trip{}).Where("id = ?", tripID).
		Update("needs_audit", false).Error; err != nil {
		return fmt.Errorf("failed to clear audit flag for trip %s: %w", tripID, err)
	}
	return nil
}
