package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferencesDecodeLeniently(t *testing.T) {
	cases := []struct {
		name string
		body string
		want SchedulePreferencesRequest
	}{
		{
			name: "typed",
			body: `{"earliest_start":"09:00","avoid_days":["F","Th"],"max_classes_per_day":2,"preferred_time":"morning"}`,
			want: SchedulePreferencesRequest{EarliestStart: "09:00", AvoidDays: LooseStringList{"F", "Th"}, MaxClassesPerDay: "2", PreferredTime: "morning"},
		},
		{
			name: "stringly",
			body: `{"avoid_days":"M, W","max_classes_per_day":"3"}`,
			want: SchedulePreferencesRequest{AvoidDays: LooseStringList{"M", "W"}, MaxClassesPerDay: "3"},
		},
		{
			name: "garbage",
			body: `{"earliest_start":900,"avoid_days":[1,null,"F"],"max_classes_per_day":{"n":2},"preferred_time":null}`,
			want: SchedulePreferencesRequest{EarliestStart: "900", AvoidDays: LooseStringList{"1", "F"}, MaxClassesPerDay: `{"n":2}`},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got SchedulePreferencesRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGenerateRequestDecodes(t *testing.T) {
	var req GenerateScheduleRequest
	require.NoError(t, json.Unmarshal([]byte(`{"selected_courses":["c1","c2"],"preferences":{"max_classes_per_day":"lots"}}`), &req))
	assert.Equal(t, []string{"c1", "c2"}, req.SelectedCourses)
	assert.Equal(t, LooseString("lots"), req.Preferences.MaxClassesPerDay)
}
