package model

import "time"

// Location represents a site or building that visitors are scheduled into.
type Location struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Address   string    `gorm:"size:256" json:"address"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Cameras []Camera   `gorm:"foreignKey:LocationID" json:"cameras,omitempty"`
	Slots   []TimeSlot `gorm:"foreignKey:LocationID" json:"-"`
}
