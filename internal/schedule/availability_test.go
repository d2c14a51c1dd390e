package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailability(t *testing.T) {
	testCases := []struct {
		name              string
		capacity          int
		booked            int
		expectedRemaining int
		expectedRatio     float64
		expectedStatus    SlotStatus
	}{
		{
			name:     "Plenty of room",
			capacity: 10, booked: 3,
			expectedRemaining: 7,
			expectedRatio:     0.3,
			expectedStatus:    StatusAvailable,
		},
		{
			name:     "Ratio exactly at threshold is limited",
			capacity: 10, booked: 8,
			expectedRemaining: 2,
			expectedRatio:     0.8,
			expectedStatus:    StatusLimited,
		},
		{
			name:     "Just under threshold",
			capacity: 10, booked: 7,
			expectedRemaining: 3,
			expectedRatio:     0.7,
			expectedStatus:    StatusAvailable,
		},
		{
			name:     "Exactly full",
			capacity: 10, booked: 10,
			expectedRemaining: 0,
			expectedRatio:     1.0,
			expectedStatus:    StatusFull,
		},
		{
			name:     "Overbooked stays a value, not an error",
			capacity: 10, booked: 12,
			expectedRemaining: -2,
			expectedRatio:     1.2,
			expectedStatus:    StatusFull,
		},
		{
			name:     "Zero capacity guards the division",
			capacity: 0, booked: 0,
			expectedRemaining: 0,
			expectedRatio:     0,
			expectedStatus:    StatusFull,
		},
		{
			name:     "No bookings",
			capacity: 5, booked: 0,
			expectedRemaining: 5,
			expectedRatio:     0,
			expectedStatus:    StatusAvailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snap := Availability(tc.capacity, tc.booked)
			assert.Equal(t, tc.expectedRemaining, snap.RemainingCapacity)
			assert.Equal(t, tc.capacity, snap.TotalCapacity)
			assert.InDelta(t, tc.expectedRatio, snap.UtilizationRatio, 1e-9)
			assert.Equal(t, tc.expectedStatus, snap.Status)
		})
	}
}

func TestApplicable(t *testing.T) {
	// 2025-06-18 is a Wednesday, 2025-06-21 a Saturday.
	wednesday := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 22, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Wednesday, wednesday.Weekday())
	require.Equal(t, time.Saturday, saturday.Weekday())

	testCases := []struct {
		name     string
		active   bool
		mask     string
		date     time.Time
		expected bool
	}{
		{
			name:   "Weekday slot on a Wednesday",
			active: true, mask: "1,2,3,4,5", date: wednesday,
			expected: true,
		},
		{
			name:   "Weekday slot on a Saturday",
			active: true, mask: "1,2,3,4,5", date: saturday,
			expected: false,
		},
		{
			name:   "Sunday slot on a Sunday uses 7, not 0",
			active: true, mask: "7", date: sunday,
			expected: true,
		},
		{
			name:   "Inactive slot never applies",
			active: false, mask: "1,2,3,4,5", date: wednesday,
			expected: false,
		},
		{
			name:   "Empty mask never applies",
			active: true, mask: "", date: wednesday,
			expected: false,
		},
		{
			name:   "Malformed tokens are inert, valid ones still apply",
			active: true, mask: "3,bogus", date: wednesday,
			expected: true,
		},
		{
			name:   "Fully malformed mask never applies",
			active: true, mask: "bogus", date: wednesday,
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Applicable(tc.active, tc.mask, tc.date))
		})
	}
}

func TestBookingKey(t *testing.T) {
	date := time.Date(2025, 6, 18, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "42_2025-06-18", BookingKey(42, date))
}

// The end-to-end scenario: a weekday morning slot at four of five seats on a
// Tuesday is applicable and sits exactly at the limited threshold.
func TestMorningSlotScenario(t *testing.T) {
	// 2025-06-17 is a Tuesday.
	tuesday := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Tuesday, tuesday.Weekday())

	r, err := ParseRange("09:00", "10:00")
	require.NoError(t, err)
	assert.Equal(t, 60, r.DurationMinutes())

	assert.True(t, Applicable(true, "1,2,3,4,5", tuesday))

	snap := Availability(5, 4)
	assert.Equal(t, 1, snap.RemainingCapacity)
	assert.InDelta(t, 0.8, snap.UtilizationRatio, 1e-9)
	assert.Equal(t, StatusLimited, snap.Status)
}

type orderedSlot struct {
	name  string
	start TimeOfDay
}

func (s orderedSlot) StartMinutes() int { return s.start.Minutes() }

func TestSortByStart(t *testing.T) {
	slots := []orderedSlot{
		{name: "afternoon", start: TimeOfDay{Hour: 14}},
		{name: "morning-b", start: TimeOfDay{Hour: 9}},
		{name: "morning-a", start: TimeOfDay{Hour: 9}},
		{name: "early", start: TimeOfDay{Hour: 7, Minute: 30}},
	}

	SortByStart(slots)

	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = s.name
	}
	// Stable: the two 09:00 slots keep their insertion order.
	assert.Equal(t, []string{"early", "morning-b", "morning-a", "afternoon"}, names)
}
