package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidFormat marks a time string or day-mask token that cannot be
	// parsed as expected.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidRange marks a time range whose end is not strictly after its
	// start. It must be surfaced to the caller, never silently corrected.
	ErrInvalidRange = errors.New("end time must be after start time")
)

// TimeOfDay is a wall-clock time with no date or timezone component.
// Values are totally ordered by (Hour, Minute).
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:mm" or "HH:mm:ss"; a seconds component is
// accepted and ignored. Malformed input fails with ErrInvalidFormat.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("%w: %q is not HH:mm", ErrInvalidFormat, raw)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: bad hour in %q", ErrInvalidFormat, raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: bad minute in %q", ErrInvalidFormat, raw)
	}
	if len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return TimeOfDay{}, fmt.Errorf("%w: bad seconds in %q", ErrInvalidFormat, raw)
		}
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// Minutes returns the total minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// String formats the time as "HH:mm".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// TimeRange is a validated (start, end) pair with end strictly after start.
type TimeRange struct {
	Start TimeOfDay
	End   TimeOfDay
}

// ParseRange parses and validates a start/end pair. It fails with
// ErrInvalidFormat when either time is malformed and with ErrInvalidRange
// when end is not strictly after start.
func ParseRange(start, end string) (TimeRange, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return TimeRange{}, fmt.Errorf("start time: %w", err)
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return TimeRange{}, fmt.Errorf("end time: %w", err)
	}
	if s.Minutes() >= e.Minutes() {
		return TimeRange{}, fmt.Errorf("%w: %s >= %s", ErrInvalidRange, s, e)
	}
	return TimeRange{Start: s, End: e}, nil
}

// ValidateRange checks a raw start/end pair without returning the parsed range.
func ValidateRange(start, end string) error {
	_, err := ParseRange(start, end)
	return err
}

// DurationMinutes returns end minus start in minutes. A negative value is
// returned as-is, never clamped; only a validated range yields a meaningful
// duration.
func DurationMinutes(start, end TimeOfDay) int {
	return end.Minutes() - start.Minutes()
}

// DurationMinutes returns the length of the range in minutes.
func (r TimeRange) DurationMinutes() int {
	return DurationMinutes(r.Start, r.End)
}

// Contains reports whether t falls inside the half-open window [Start, End).
func (r TimeRange) Contains(t TimeOfDay) bool {
	m := t.Minutes()
	return m >= r.Start.Minutes() && m < r.End.Minutes()
}
