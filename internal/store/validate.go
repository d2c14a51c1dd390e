package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/schedule"
)

// ErrInvalid marks a write rejected by validation. Handlers map it to a 400
// response; everything else is treated as an internal error.
var ErrInvalid = errors.New("validation failed")

// ValidateSlot enforces the write-side rules for time slots. Reads stay
// permissive, but a record never enters the database with a malformed day
// mask or an inverted time range.
func ValidateSlot(slot *model.TimeSlot) error {
	name := strings.TrimSpace(slot.Name)
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalid)
	}
	if len(name) > model.SlotNameMaxLen {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalid, model.SlotNameMaxLen)
	}
	slot.Name = name

	if err := schedule.ValidateRange(slot.StartTime, slot.EndTime); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if !schedule.ValidDayMask(slot.ActiveDays) {
		return fmt.Errorf("%w: active_days %q is not a comma-separated list of days 1-7", ErrInvalid, slot.ActiveDays)
	}
	if slot.MaxVisitors < model.SlotMinVisitors || slot.MaxVisitors > model.SlotMaxVisitors {
		return fmt.Errorf("%w: max_visitors must be between %d and %d", ErrInvalid, model.SlotMinVisitors, model.SlotMaxVisitors)
	}
	if slot.BufferMinutes < 0 || slot.BufferMinutes > model.SlotMaxBufferMins {
		return fmt.Errorf("%w: buffer_minutes must be between 0 and %d", ErrInvalid, model.SlotMaxBufferMins)
	}
	return nil
}

// ValidateRule enforces the write-side rules for escalation rules. The time
// window and day mask are optional; when present they must parse.
func ValidateRule(rule *model.EscalationRule) error {
	name := strings.TrimSpace(rule.Name)
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalid)
	}
	rule.Name = name

	switch rule.TriggerType {
	case model.TriggerOverstay:
		if rule.ThresholdMinutes <= 0 {
			return fmt.Errorf("%w: threshold_minutes must be positive for %s rules", ErrInvalid, model.TriggerOverstay)
		}
	case model.TriggerCapacity:
		if rule.ThresholdRatio <= 0 || rule.ThresholdRatio > 1 {
			return fmt.Errorf("%w: threshold_ratio must be in (0, 1] for %s rules", ErrInvalid, model.TriggerCapacity)
		}
	default:
		return fmt.Errorf("%w: unknown trigger_type %q", ErrInvalid, rule.TriggerType)
	}

	switch rule.Severity {
	case model.SeverityInfo, model.SeverityWarning, model.SeverityCritical:
	default:
		return fmt.Errorf("%w: unknown severity %q", ErrInvalid, rule.Severity)
	}

	if rule.ActiveDays != "" && !schedule.ValidDayMask(rule.ActiveDays) {
		return fmt.Errorf("%w: active_days %q is not a comma-separated list of days 1-7", ErrInvalid, rule.ActiveDays)
	}
	if rule.StartTime != "" || rule.EndTime != "" {
		if err := schedule.ValidateRange(rule.StartTime, rule.EndTime); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	return nil
}
