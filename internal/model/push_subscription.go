package model

import "time"

// PushSubscription holds a browser push subscription for HOS violation
// alerts. Subscribers pick the trips they want alerts for.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	// Associations
	Trips []*Trip `gorm:"many2many:subscription_trip_mapping;" json:"trips,omitempty"`
}
