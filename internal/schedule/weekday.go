package schedule

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Weekday identifies a day of the week using the backend's persisted
// numbering, Monday=1 through Sunday=7. This is the only convention used
// anywhere in the service; time.Weekday values must be converted through
// FromTime.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// FromTime converts Go's native 0=Sunday numbering to the persisted
// 1=Monday..7=Sunday convention.
func FromTime(wd time.Weekday) Weekday {
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(wd)
}

// WeekdaySet is a set of weekdays on which a recurring slot or rule is active.
type WeekdaySet map[Weekday]struct{}

// NewWeekdaySet builds a set from the given days.
func NewWeekdaySet(days ...Weekday) WeekdaySet {
	set := make(WeekdaySet, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	return set
}

// Contains reports whether day is a member of the set.
func (s WeekdaySet) Contains(day Weekday) bool {
	_, ok := s[day]
	return ok
}

// Days returns the members sorted ascending.
func (s WeekdaySet) Days() []Weekday {
	days := make([]Weekday, 0, len(s))
	for d := range s {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// EncodeDays produces the canonical textual day mask: ascending
// comma-separated integers, e.g. "1,2,3,4,5" for Monday through Friday.
// The empty set encodes to the empty string.
func EncodeDays(set WeekdaySet) string {
	days := set.Days()
	tokens := make([]string, len(days))
	for i, d := range days {
		tokens[i] = strconv.Itoa(int(d))
	}
	return strings.Join(tokens, ",")
}

// DecodeDays parses a persisted day mask. Parsing is deliberately permissive:
// tokens that fail to parse or fall outside [1,7] are dropped rather than
// rejected, and duplicates collapse. This mirrors what the backend already
// tolerates in stored data; callers that evaluate masks should surface the
// data-quality problem via ValidDayMask first (see Applicable).
// The empty string decodes to an empty set.
func DecodeDays(raw string) WeekdaySet {
	set := make(WeekdaySet)
	if raw == "" {
		return set
	}
	for _, token := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil || n < int(Monday) || n > int(Sunday) {
			continue
		}
		set[Weekday(n)] = struct{}{}
	}
	return set
}

// ValidDayMask reports whether raw is a well-formed day mask: every
// comma-separated token must parse as an integer in [1,7] and no token may be
// empty (so no leading, trailing, or doubled commas). The empty string is not
// valid: a persisted slot must be active on at least one day.
func ValidDayMask(raw string) bool {
	if raw == "" {
		return false
	}
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			return false
		}
		n, err := strconv.Atoi(token)
		if err != nil || n < int(Monday) || n > int(Sunday) {
			return false
		}
	}
	return true
}
