package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecodeDays(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected WeekdaySet
	}{
		{
			name:     "Weekdays",
			raw:      "1,2,3,4,5",
			expected: NewWeekdaySet(Monday, Tuesday, Wednesday, Thursday, Friday),
		},
		{
			name:     "Duplicates collapse",
			raw:      "1,2,2,5",
			expected: NewWeekdaySet(Monday, Tuesday, Friday),
		},
		{
			name:     "Unsorted input",
			raw:      "7,1,3",
			expected: NewWeekdaySet(Monday, Wednesday, Sunday),
		},
		{
			name:     "Whitespace tolerated",
			raw:      " 1 , 2 ,3",
			expected: NewWeekdaySet(Monday, Tuesday, Wednesday),
		},
		{
			name:     "Out-of-range tokens dropped",
			raw:      "0,1,8,42",
			expected: NewWeekdaySet(Monday),
		},
		{
			name:     "Garbage tokens dropped",
			raw:      "1,x,3",
			expected: NewWeekdaySet(Monday, Wednesday),
		},
		{
			name:     "Empty string",
			raw:      "",
			expected: NewWeekdaySet(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DecodeDays(tc.raw))
		})
	}
}

func TestEncodeDays(t *testing.T) {
	assert.Equal(t, "1,2,5", EncodeDays(NewWeekdaySet(Friday, Monday, Tuesday)))
	assert.Equal(t, "", EncodeDays(NewWeekdaySet()))
	assert.Equal(t, "7", EncodeDays(NewWeekdaySet(Sunday)))
}

// Decoding then re-encoding must yield the canonical ascending, deduplicated
// form of any valid mask.
func TestEncodeDecodeNormalizes(t *testing.T) {
	testCases := []struct {
		raw       string
		canonical string
	}{
		{"3,1,5", "1,3,5"},
		{"1,2,2,5", "1,2,5"},
		{"1,2,3,4,5", "1,2,3,4,5"},
		{"7,7,7", "7"},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			normalized := EncodeDays(DecodeDays(tc.raw))
			assert.Equal(t, tc.canonical, normalized)
			// A second pass must be a fixpoint.
			assert.Equal(t, normalized, EncodeDays(DecodeDays(normalized)))
		})
	}
}

func TestValidDayMask(t *testing.T) {
	testCases := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"Weekdays", "1,2,3,4,5", true},
		{"Unsorted is still valid", "3,1,5", true},
		{"Single day", "7", true},
		{"Out of range", "1,8", false},
		{"Zero", "0,1", false},
		{"Empty token", "1,,3", false},
		{"Trailing comma", "1,2,", false},
		{"Leading comma", ",1", false},
		{"Garbage", "mon,tue", false},
		{"Empty string", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidDayMask(tc.raw))
		})
	}
}

func TestFromTime(t *testing.T) {
	assert.Equal(t, Monday, FromTime(time.Monday))
	assert.Equal(t, Saturday, FromTime(time.Saturday))
	// Go numbers Sunday as 0; the persisted convention puts it last.
	assert.Equal(t, Sunday, FromTime(time.Sunday))
}

func TestWeekdaySetDays(t *testing.T) {
	set := NewWeekdaySet(Sunday, Wednesday, Monday)
	assert.Equal(t, []Weekday{Monday, Wednesday, Sunday}, set.Days())
	assert.True(t, set.Contains(Wednesday))
	assert.False(t, set.Contains(Friday))
}
