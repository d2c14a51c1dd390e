package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  TimeOfDay
		expectErr bool
	}{
		{
			name:     "Plain HH:mm",
			raw:      "09:30",
			expected: TimeOfDay{Hour: 9, Minute: 30},
		},
		{
			name:     "Seconds ignored",
			raw:      "17:45:59",
			expected: TimeOfDay{Hour: 17, Minute: 45},
		},
		{
			name:     "Midnight",
			raw:      "00:00",
			expected: TimeOfDay{},
		},
		{
			name:      "Hour out of range",
			raw:       "24:00",
			expectErr: true,
		},
		{
			name:      "Minute out of range",
			raw:       "10:60",
			expectErr: true,
		},
		{
			name:      "Not a time",
			raw:       "morning",
			expectErr: true,
		},
		{
			name:      "Missing minute",
			raw:       "09",
			expectErr: true,
		},
		{
			name:      "Bad seconds",
			raw:       "09:00:xx",
			expectErr: true,
		},
		{
			name:      "Empty",
			raw:       "",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tod, err := ParseTimeOfDay(tc.raw)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, tod)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	testCases := []struct {
		name        string
		start, end  string
		expectedErr error
	}{
		{
			name:  "Valid range",
			start: "09:00", end: "17:30",
		},
		{
			name:  "End before start",
			start: "09:00", end: "08:00",
			expectedErr: ErrInvalidRange,
		},
		{
			name:  "Equal times rejected",
			start: "09:00", end: "09:00",
			expectedErr: ErrInvalidRange,
		},
		{
			name:  "Malformed start",
			start: "9am", end: "17:00",
			expectedErr: ErrInvalidFormat,
		},
		{
			name:  "Malformed end",
			start: "09:00", end: "25:00",
			expectedErr: ErrInvalidFormat,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRange(tc.start, tc.end)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDurationMinutes(t *testing.T) {
	r, err := ParseRange("09:00", "17:30")
	require.NoError(t, err)
	assert.Equal(t, 510, r.DurationMinutes())

	// The free function does plain arithmetic and never clamps.
	start := TimeOfDay{Hour: 10}
	end := TimeOfDay{Hour: 9}
	assert.Equal(t, -60, DurationMinutes(start, end))
}

func TestTimeOfDayOrdering(t *testing.T) {
	earlier := TimeOfDay{Hour: 8, Minute: 59}
	later := TimeOfDay{Hour: 9, Minute: 0}
	assert.True(t, earlier.Before(later))
	assert.False(t, later.Before(earlier))
	assert.False(t, earlier.Before(earlier))
	assert.Equal(t, "08:59", earlier.String())
}

func TestTimeRangeContains(t *testing.T) {
	r, err := ParseRange("09:00", "10:00")
	require.NoError(t, err)

	assert.True(t, r.Contains(TimeOfDay{Hour: 9}))
	assert.True(t, r.Contains(TimeOfDay{Hour: 9, Minute: 59}))
	// Half-open: the end minute itself is outside.
	assert.False(t, r.Contains(TimeOfDay{Hour: 10}))
	assert.False(t, r.Contains(TimeOfDay{Hour: 8, Minute: 59}))
}
