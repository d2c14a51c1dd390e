package model

import "time"

// Trigger types recognized by the escalation sweep.
const (
	TriggerOverstay = "overstay"
	TriggerCapacity = "capacity"
)

// Alert severities, lowest to highest.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// EscalationRule configures when the background sweep raises an alert for
// front-desk operators. Rules carry the same day-mask and "HH:mm" window
// encoding as slots and are validated through the same schedule package, so
// there is exactly one weekday numbering convention in the system.
type EscalationRule struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:100;not null" json:"name"`
	TriggerType      string    `gorm:"size:16;not null" json:"triggerType"`
	ThresholdMinutes int       `gorm:"not null;default:0" json:"thresholdMinutes"`
	ThresholdRatio   float64   `gorm:"not null;default:0" json:"thresholdRatio"`
	Severity         string    `gorm:"size:16;not null" json:"severity"`
	ActiveDays       string    `gorm:"size:16;not null" json:"activeDays"`
	StartTime        string    `gorm:"size:8;not null" json:"startTime"`
	EndTime          string    `gorm:"size:8;not null" json:"endTime"`
	LocationID       *int64    `gorm:"index" json:"locationId,omitempty"`
	NotifyByPush     bool      `gorm:"not null;default:true" json:"notifyByPush"`
	Enabled          bool      `gorm:"not null;default:true" json:"enabled"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// EscalationAlert is one fired escalation, kept until acknowledged.
// SubjectKey identifies what the alert is about (rule, subject, and day) so
// the sweep can suppress duplicates while an alert is still open.
type EscalationAlert struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	RuleID       int64     `gorm:"index;not null" json:"ruleId"`
	Severity     string    `gorm:"size:16;not null" json:"severity"`
	Message      string    `gorm:"size:512;not null" json:"message"`
	SlotID       *int64    `gorm:"index" json:"slotId,omitempty"`
	LocationID   *int64    `gorm:"index" json:"locationId,omitempty"`
	SubjectKey   string    `gorm:"index;size:64;not null" json:"-"`
	TriggeredAt  time.Time `gorm:"not null" json:"triggeredAt"`
	Acknowledged bool      `gorm:"not null;default:false" json:"acknowledged"`

	// Associations
	Rule EscalationRule `gorm:"foreignKey:RuleID" json:"-"`
}
