package model

import "time"

// StopType classifies a route stop.
type StopType string

const (
	StopPickup  StopType = "pickup"
	StopDropoff StopType = "dropoff"
	StopFuel    StopType = "fuel"
	StopRest    StopType = "rest"
	StopRestart StopType = "restart"
)

// RouteStop is a point-in-route marker (fuel stop, mandatory rest, pickup,
// dropoff) attached to a trip's schedule.
type RouteStop struct {
	ID     string   `gorm:"type:uuid;primaryKey" json:"id"`
	TripID string   `gorm:"type:uuid;index;not null" json:"trip_id"`
	Type   StopType `gorm:"size:20;not null" json:"type"`

	Location          string    `gorm:"size:255" json:"location"`
	DistanceFromStart float64   `gorm:"not null" json:"distance_from_start"`
	Seq               int       `gorm:"not null" json:"seq"`
	EstimatedArrival  time.Time `json:"estimated_arrival"`
	DurationMinutes   int       `json:"duration_minutes"`

	CreatedAt time.Time `json:"created_at"`
}
