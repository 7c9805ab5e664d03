package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreferencesAllFields(t *testing.T) {
	prefs, notes := ParsePreferences(RawPreferences{
		EarliestStart:    "09:30",
		AvoidDays:        []string{"F", "Th"},
		MaxClassesPerDay: "2",
		PreferredTime:    "Morning",
	})
	assert.Empty(t, notes)
	require.NotNil(t, prefs.EarliestStart)
	assert.Equal(t, NewClock(9, 30), *prefs.EarliestStart)
	assert.Equal(t, NewDaySet(Thursday, Friday), prefs.AvoidDays)
	assert.Equal(t, 2, prefs.MaxClassesPerDay)
	assert.Equal(t, WindowMorning, prefs.PreferredTime)
}

func TestParsePreferencesEmptyIsNeutral(t *testing.T) {
	prefs, notes := ParsePreferences(RawPreferences{})
	assert.Empty(t, notes)
	assert.Equal(t, Preferences{}, prefs)
}

func TestParsePreferencesDegradesMalformedFields(t *testing.T) {
	prefs, notes := ParsePreferences(RawPreferences{
		EarliestStart:    "nine o'clock",
		AvoidDays:        []string{"Sat", "M"},
		MaxClassesPerDay: "lots",
		PreferredTime:    "midnight",
	})
	assert.Nil(t, prefs.EarliestStart)
	assert.True(t, prefs.AvoidDays.IsEmpty())
	assert.Zero(t, prefs.MaxClassesPerDay)
	assert.Equal(t, WindowNone, prefs.PreferredTime)
	assert.Len(t, notes, 4)
}

func TestParsePreferencesNonPositiveMax(t *testing.T) {
	prefs, notes := ParsePreferences(RawPreferences{MaxClassesPerDay: "0"})
	assert.Zero(t, prefs.MaxClassesPerDay)
	assert.Len(t, notes, 1)
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("08:05")
	require.NoError(t, err)
	assert.Equal(t, Clock(485), c)
	assert.Equal(t, "08:05", c.String())

	c, err = ParseClock("13:45:00")
	require.NoError(t, err)
	assert.Equal(t, NewClock(13, 45), c)

	for _, raw := range []string{"", "8", "24:00", "12:60", "12:5", "ab:cd", "10:00:99"} {
		_, err := ParseClock(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseDayAliases(t *testing.T) {
	for raw, want := range map[string]Day{"M": Monday, "tue": Tuesday, "WEDNESDAY": Wednesday, "Th": Thursday, "fri": Friday} {
		got, ok := ParseDay(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got)
	}
	_, ok := ParseDay("sun")
	assert.False(t, ok)
	assert.Equal(t, []string{"M", "Th", "F"}, NewDaySet(Friday, Monday, Thursday).Codes())
}

func TestWindowContainsInclusiveBounds(t *testing.T) {
	assert.True(t, WindowMorning.Contains(NewClock(8, 0)))
	assert.True(t, WindowMorning.Contains(NewClock(12, 0)))
	assert.False(t, WindowMorning.Contains(NewClock(12, 1)))
	assert.True(t, WindowAfternoon.Contains(NewClock(12, 0)))
	assert.True(t, WindowEvening.Contains(NewClock(20, 0)))
	assert.False(t, WindowNone.Contains(NewClock(10, 0)))
}

func TestParsePreferencesDropsAvoidDaysWithAnyUnknownTag(t *testing.T) {
	prefs, notes := ParsePreferences(RawPreferences{AvoidDays: []string{"F", "Xyz", "Sun"}})
	assert.True(t, prefs.AvoidDays.IsEmpty())
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "Xyz")
	assert.Contains(t, notes[0], "Sun")
}
