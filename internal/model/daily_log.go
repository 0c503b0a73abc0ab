package model

import "time"

// DailyLog is one 24-hour log sheet of a trip. Totals are minutes; for a
// complete day they sum to 1440.
type DailyLog struct {
	ID      string    `gorm:"type:uuid;primaryKey" json:"id"`
	TripID  string    `gorm:"type:uuid;index;not null" json:"trip_id"`
	LogDate time.Time `gorm:"type:date;not null;index" json:"log_date"`

	TotalDrivingTime int `gorm:"not null" json:"total_driving_time"`
	TotalOnDutyTime  int `gorm:"not null" json:"total_on_duty_time"`
	TotalSleeperTime int `gorm:"not null" json:"total_sleeper_time"`
	TotalOffDutyTime int `gorm:"not null" json:"total_off_duty_time"`

	// CycleHoursUsed is the cumulative rolling-window usage through the
	// end of this day, in hours.
	CycleHoursUsed float64 `json:"cycle_hours_used"`

	HasViolations bool `gorm:"index;not null;default:false" json:"has_violations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Entries []LogEntry `gorm:"foreignKey:DailyLogID;constraint:OnDelete:CASCADE" json:"entries,omitempty"`
}

// TotalMinutes returns the sum of the four status totals.
func (d DailyLog) TotalMinutes() int {
	return d.TotalDrivingTime + d.TotalOnDutyTime + d.TotalSleeperTime + d.TotalOffDutyTime
}

// LogEntry is a single duty-status period within a daily log. Generated
// entries come from the schedule builder; manual entries are appended by
// callers and re-trigger violation detection.
type LogEntry struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	DailyLogID string `gorm:"type:uuid;index;not null" json:"daily_log_id"`

	Status    string    `gorm:"size:20;not null" json:"status"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	DurationMinutes int     `gorm:"not null" json:"duration_minutes"`
	Location        string  `gorm:"size:255" json:"location"`
	Remarks         string  `json:"remarks"`
	MilesAtStart    float64 `json:"miles_at_start"`

	// IsManual marks entries appended after generation.
	IsManual bool `gorm:"not null;default:false" json:"is_manual"`

	CreatedAt time.Time `json:"created_at"`
}
