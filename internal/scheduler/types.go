package scheduler

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Day is a weekday a section can meet on.
type Day uint8

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Weekdays lists the supported meeting days in calendar order.
var Weekdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

var dayCodes = [...]string{"M", "T", "W", "Th", "F"}

var dayAliases = map[string]Day{
	"m": Monday, "mon": Monday, "monday": Monday,
	"t": Tuesday, "tu": Tuesday, "tue": Tuesday, "tues": Tuesday, "tuesday": Tuesday,
	"w": Wednesday, "wed": Wednesday, "wednesday": Wednesday,
	"th": Thursday, "r": Thursday, "thu": Thursday, "thur": Thursday, "thurs": Thursday, "thursday": Thursday,
	"f": Friday, "fri": Friday, "friday": Friday,
}

// Code returns the catalog day code (M, T, W, Th, F).
func (d Day) Code() string {
	if int(d) < len(dayCodes) {
		return dayCodes[d]
	}
	return "?"
}

func (d Day) String() string { return d.Code() }

// ParseDay resolves a day tag. Codes, short and long English names are accepted
// case-insensitively.
func ParseDay(raw string) (Day, bool) {
	day, ok := dayAliases[strings.ToLower(strings.TrimSpace(raw))]
	return day, ok
}

// DaySet is a bitmask of meeting days.
type DaySet uint8

// NewDaySet builds a set from days.
func NewDaySet(days ...Day) DaySet {
	var set DaySet
	for _, d := range days {
		set |= 1 << d
	}
	return set
}

// ParseDaySet parses day tags, returning the set and any tags it did not recognise.
func ParseDaySet(tags []string) (DaySet, []string) {
	var set DaySet
	var unknown []string
	for _, tag := range tags {
		day, ok := ParseDay(tag)
		if !ok {
			unknown = append(unknown, tag)
			continue
		}
		set |= 1 << day
	}
	return set, unknown
}

// Has reports whether d is in the set.
func (s DaySet) Has(d Day) bool { return s&(1<<d) != 0 }

// Intersects reports whether the sets share a day.
func (s DaySet) Intersects(o DaySet) bool { return s&o != 0 }

// Len returns the number of days in the set.
func (s DaySet) Len() int { return bits.OnesCount8(uint8(s)) }

// IsEmpty reports whether no day is set.
func (s DaySet) IsEmpty() bool { return s == 0 }

// Days returns the members in calendar order.
func (s DaySet) Days() []Day {
	days := make([]Day, 0, s.Len())
	for _, d := range Weekdays {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

// Codes returns the catalog codes of the members in calendar order.
func (s DaySet) Codes() []string {
	codes := make([]string, 0, s.Len())
	for _, d := range s.Days() {
		codes = append(codes, d.Code())
	}
	return codes
}

func (s DaySet) String() string { return strings.Join(s.Codes(), "") }

// Clock is a time of day in minutes since midnight.
type Clock int

// NewClock builds a Clock from hour and minute.
func NewClock(hour, minute int) Clock { return Clock(hour*60 + minute) }

// ParseClock parses "HH:MM" or "HH:MM:SS" (seconds are ignored).
func ParseClock(raw string) (Clock, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid minute in %q", raw)
	}
	if len(parts) == 3 {
		if sec, err := strconv.Atoi(parts[2]); err != nil || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("invalid second in %q", raw)
		}
	}
	return NewClock(hour, minute), nil
}

// MustParseClock is ParseClock for literals; it panics on malformed input.
func MustParseClock(raw string) Clock {
	c, err := ParseClock(raw)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Section is the engine's read-only view of a catalog section.
type Section struct {
	ID       string
	CourseID string
	Label    string
	Credits  int
	Days     DaySet
	Start    Clock
	End      Clock
}

// Midpoint returns (start+end)/2 truncated to the minute.
func (s Section) Midpoint() Clock {
	return (s.Start + s.End) / 2
}

// Result is the chosen schedule.
type Result struct {
	Sections     []Section
	TotalCredits int
	Score        int
}
