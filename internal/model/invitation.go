package model

import "time"

// Invitation is one visitor's booked visit: a slot on a calendar date.
// Confirmed invitations are what the availability view counts against a
// slot's capacity. VisitDate is an ISO "2006-01-02" string so the composite
// booking key "{slotID}_{date}" round-trips without timezone surprises.
type Invitation struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	Code         string     `gorm:"uniqueIndex;size:36;not null" json:"code"`
	VisitorName  string     `gorm:"size:128;not null" json:"visitorName"`
	VisitorEmail string     `gorm:"size:128;not null" json:"visitorEmail"`
	SlotID       int64      `gorm:"not null;index:idx_invitations_slot_date" json:"slotId"`
	VisitDate    string     `gorm:"size:10;not null;index:idx_invitations_slot_date" json:"visitDate"`
	Status       string     `gorm:"size:16;not null;default:pending" json:"status"`
	CheckedInAt  *time.Time `json:"checkedInAt,omitempty"`
	CheckedOutAt *time.Time `json:"checkedOutAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	// Associations
	Slot TimeSlot `gorm:"foreignKey:SlotID" json:"-"`
}

// Invitation lifecycle statuses.
const (
	InviteStatusPending   = "pending"
	InviteStatusConfirmed = "confirmed"
	InviteStatusCancelled = "cancelled"
)
