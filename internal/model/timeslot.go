package model

import "time"

// TimeSlot defines a recurring, named block of time during which visitors may
// be scheduled on the masked weekdays. Start and end times are wall-clock
// "HH:mm" strings and ActiveDays is the persisted day mask ("1,2,3,4,5" for
// Monday through Friday); both are decoded through the schedule package.
//
// Slots are mutated only by full-record replace and are deactivated rather
// than deleted, so historical invitations keep a valid reference.
type TimeSlot struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	StartTime     string    `gorm:"size:8;not null" json:"startTime"`
	EndTime       string    `gorm:"size:8;not null" json:"endTime"`
	MaxVisitors   int       `gorm:"not null" json:"maxVisitors"`
	ActiveDays    string    `gorm:"size:16;not null" json:"activeDays"`
	BufferMinutes int       `gorm:"not null;default:0" json:"bufferMinutes"`
	LocationID    *int64    `gorm:"index" json:"locationId,omitempty"`
	IsActive      bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Associations
	Location *Location `gorm:"foreignKey:LocationID" json:"-"`
}

// Bounds enforced when a slot is created or replaced.
const (
	SlotNameMaxLen    = 100
	SlotMinVisitors   = 1
	SlotMaxVisitors   = 1000
	SlotMaxBufferMins = 120
)
