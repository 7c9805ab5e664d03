package scheduler

import (
	"fmt"
	"strconv"
	"strings"
)

// Window is a preferred time-of-day band.
type Window string

const (
	WindowNone      Window = ""
	WindowMorning   Window = "morning"
	WindowAfternoon Window = "afternoon"
	WindowEvening   Window = "evening"
)

var windowBounds = map[Window][2]Clock{
	WindowMorning:   {NewClock(8, 0), NewClock(12, 0)},
	WindowAfternoon: {NewClock(12, 0), NewClock(16, 0)},
	WindowEvening:   {NewClock(16, 0), NewClock(20, 0)},
}

// Bounds returns the inclusive window range; ok is false for unknown windows.
func (w Window) Bounds() (from, to Clock, ok bool) {
	b, ok := windowBounds[w]
	return b[0], b[1], ok
}

// Contains reports whether c lies inside the window, bounds included.
func (w Window) Contains(c Clock) bool {
	from, to, ok := w.Bounds()
	return ok && c >= from && c <= to
}

// Preferences are the parsed per-request constraints. Zero values mean absent.
type Preferences struct {
	EarliestStart    *Clock
	AvoidDays        DaySet
	MaxClassesPerDay int
	PreferredTime    Window
}

// RawPreferences is the loosely typed payload as received from a client.
type RawPreferences struct {
	EarliestStart    string
	AvoidDays        []string
	MaxClassesPerDay string
	PreferredTime    string
}

// ParsePreferences validates each field independently. A malformed field is
// dropped and described in the returned notes; it never fails the request.
func ParsePreferences(raw RawPreferences) (Preferences, []string) {
	var prefs Preferences
	var notes []string

	if v := strings.TrimSpace(raw.EarliestStart); v != "" {
		clock, err := ParseClock(v)
		if err != nil {
			notes = append(notes, fmt.Sprintf("earliest_start: %v", err))
		} else {
			prefs.EarliestStart = &clock
		}
	}

	if len(raw.AvoidDays) > 0 {
		set, unknown := ParseDaySet(raw.AvoidDays)
		if len(unknown) > 0 {
			notes = append(notes, fmt.Sprintf("avoid_days: unknown days %q", unknown))
		} else {
			prefs.AvoidDays = set
		}
	}

	if v := strings.TrimSpace(raw.MaxClassesPerDay); v != "" {
		n, err := strconv.Atoi(v)
		switch {
		case err != nil:
			notes = append(notes, fmt.Sprintf("max_classes_per_day: %q is not an integer", v))
		case n <= 0:
			notes = append(notes, fmt.Sprintf("max_classes_per_day: %d must be positive", n))
		default:
			prefs.MaxClassesPerDay = n
		}
	}

	if v := strings.ToLower(strings.TrimSpace(raw.PreferredTime)); v != "" {
		w := Window(v)
		if _, _, ok := w.Bounds(); ok {
			prefs.PreferredTime = w
		} else {
			notes = append(notes, fmt.Sprintf("preferred_time: unknown window %q", raw.PreferredTime))
		}
	}

	return prefs, notes
}
