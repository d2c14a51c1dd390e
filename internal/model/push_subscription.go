package model

import "time"

// PushSubscription holds a front-desk browser's web push subscription.
// Operators subscribe to the locations they watch; escalation alerts for a
// location fan out to its subscribers.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Locations []*Location `gorm:"many2many:subscription_location_mapping;"`
}
