package model

import "time"

// HOSViolation is a detected Hours-of-Service violation, attached to the
// trip and the daily log it occurred on. Rows are produced by the detector
// and replaced wholesale on re-validation; they are never edited in place.
type HOSViolation struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	TripID     string `gorm:"type:uuid;index;not null" json:"trip_id"`
	DailyLogID string `gorm:"type:uuid;index" json:"daily_log_id"`

	ViolationType string `gorm:"size:50;not null" json:"violation_type"`
	Severity      string `gorm:"size:20;not null;index" json:"severity"`
	Description   string `gorm:"not null" json:"description"`

	Value float64 `json:"value"`
	Limit float64 `json:"limit"`

	CreatedAt time.Time `json:"created_at"`
}
