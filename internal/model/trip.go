package model

import "time"

// TripStatus tracks a trip through its lifecycle.
type TripStatus string

const (
	TripPlanning  TripStatus = "planning"
	TripActive    TripStatus = "active"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

// Trip holds the route information and HOS cycle settings for one planned
// trip, together with its generated schedule.
type Trip struct {
	ID     string     `gorm:"type:uuid;primaryKey" json:"id"`
	Status TripStatus `gorm:"size:20;not null;default:'planning'" json:"status"`

	CurrentLocation string `gorm:"size:255;not null" json:"current_location"`
	PickupLocation  string `gorm:"size:255;not null" json:"pickup_location"`
	DropoffLocation string `gorm:"size:255;not null" json:"dropoff_location"`

	TotalDistanceMiles    float64 `gorm:"not null" json:"total_distance_miles"`
	EstimatedDrivingHours float64 `gorm:"not null" json:"estimated_driving_hours"`
	CycleType             string  `gorm:"size:10;not null" json:"cycle_type"`

	PlannedStartTime time.Time `gorm:"not null" json:"planned_start_time"`

	// Cycle summary captured at planning time.
	CycleHoursUsed      float64 `json:"cycle_hours_used"`
	CycleHoursRemaining float64 `json:"cycle_hours_remaining"`
	TripDurationDays    int     `json:"trip_duration_days"`

	// NeedsAudit flags trips whose logs were edited after planning; the
	// compliance auditor clears it.
	NeedsAudit bool `gorm:"index;not null;default:false" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	DailyLogs  []DailyLog     `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"daily_logs,omitempty"`
	RouteStops []RouteStop    `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"route_stops,omitempty"`
	Violations []HOSViolation `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"violations,omitempty"`
}
