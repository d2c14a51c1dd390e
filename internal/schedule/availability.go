package schedule

import (
	"fmt"
	"log"
	"sort"
	"time"
)

// LimitedThresholdRatio is the utilization ratio at which a slot with
// remaining capacity is reported as "limited" instead of "available".
const LimitedThresholdRatio = 0.8

// SlotStatus is the tri-state capacity status of a slot on a given date.
type SlotStatus string

const (
	StatusAvailable SlotStatus = "available"
	StatusLimited   SlotStatus = "limited"
	StatusFull      SlotStatus = "full"
)

// Snapshot is the derived availability of one slot on one calendar date.
// It is computed, never stored.
type Snapshot struct {
	RemainingCapacity int        `json:"remainingCapacity"`
	TotalCapacity     int        `json:"totalCapacity"`
	UtilizationRatio  float64    `json:"utilizationRatio"`
	Status            SlotStatus `json:"status"`
}

// Availability computes the snapshot for a slot with the given capacity and
// an externally supplied count of confirmed bookings. RemainingCapacity may
// be negative when a slot is overbooked; that is a valid value, not an error,
// and the status already reports "full".
func Availability(capacity, booked int) Snapshot {
	remaining := capacity - booked

	ratio := 0.0
	if capacity > 0 {
		ratio = float64(booked) / float64(capacity)
	}

	status := StatusAvailable
	switch {
	case remaining <= 0:
		status = StatusFull
	case ratio >= LimitedThresholdRatio:
		status = StatusLimited
	}

	return Snapshot{
		RemainingCapacity: remaining,
		TotalCapacity:     capacity,
		UtilizationRatio:  ratio,
		Status:            status,
	}
}

// Applicable reports whether a slot applies to the given calendar date: the
// slot must be active and the date's weekday (in the 1=Monday..7=Sunday
// convention) must be a member of the decoded day mask. Malformed mask tokens
// make the affected days inert rather than failing the whole slot; the
// data-quality problem is logged so it cannot hide silently.
func Applicable(active bool, dayMask string, date time.Time) bool {
	if !active {
		return false
	}
	if dayMask != "" && !ValidDayMask(dayMask) {
		log.Printf("Warning: malformed day mask %q; unrecognized tokens ignored", dayMask)
	}
	return DecodeDays(dayMask).Contains(FromTime(date.Weekday()))
}

// BookingKey builds the composite key under which booking counts are held:
// "{slotID}_{ISO date}". Absent entries mean zero bookings.
func BookingKey(slotID int64, date time.Time) string {
	return fmt.Sprintf("%d_%s", slotID, date.Format("2006-01-02"))
}

// StartOrdered is implemented by anything that knows its start time as
// minutes from midnight.
type StartOrdered interface {
	StartMinutes() int
}

// SortByStart stably sorts slots ascending by start time. Ties keep their
// insertion order. The availability computation itself never sorts; this
// lives here so every caller orders day views the same way.
func SortByStart[T StartOrdered](slots []T) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartMinutes() < slots[j].StartMinutes()
	})
}
