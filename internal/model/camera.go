package model

import "time"

// Camera represents an entrance camera's configuration record. Streaming is
// handled by a separate system; only the configuration lives here.
type Camera struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	LocationID int64     `gorm:"index;not null" json:"locationId"`
	Name       string    `gorm:"size:128;not null" json:"name"`
	StreamURL  string    `gorm:"size:512" json:"streamUrl"`
	Position   string    `gorm:"size:64" json:"position"`
	Enabled    bool      `gorm:"not null;default:true" json:"enabled"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Associations
	Location Location `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
