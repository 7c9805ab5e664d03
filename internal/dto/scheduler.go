package dto

// SchedulePreferencesRequest carries optional student preferences. Every field
// is lenient on the wire: malformed values are reported back rather than
// rejected.
type SchedulePreferencesRequest struct {
	EarliestStart    LooseString     `json:"earliest_start" swaggertype:"string" example:"09:00"`
	AvoidDays        LooseStringList `json:"avoid_days" swaggertype:"array,string" example:"F"`
	MaxClassesPerDay LooseString     `json:"max_classes_per_day" swaggertype:"integer" example:"2"`
	PreferredTime    LooseString     `json:"preferred_time" swaggertype:"string" example:"morning"`
}

// GenerateScheduleRequest asks the engine for the best schedule over the
// sections of the selected courses.
type GenerateScheduleRequest struct {
	SelectedCourses []string                   `json:"selected_courses" validate:"required,min=1,dive,required"`
	Preferences     SchedulePreferencesRequest `json:"preferences"`
}

// ScheduleSection is one section of a generated schedule.
type ScheduleSection struct {
	ID            string   `json:"id"`
	CourseID      string   `json:"course_id"`
	CourseCode    string   `json:"course_code"`
	CourseTitle   string   `json:"course_title"`
	SectionNumber string   `json:"section_number"`
	Instructor    *string  `json:"instructor,omitempty"`
	Days          []string `json:"days"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	Credits       int      `json:"credits"`
}

// ScheduleProposal is the chosen combination.
type ScheduleProposal struct {
	Sections     []ScheduleSection `json:"sections"`
	TotalCredits int               `json:"total_credits"`
	Score        int               `json:"score"`
}

// ScheduleStats summarises a generation run.
type ScheduleStats struct {
	State        string            `json:"state"`
	Candidates   int               `json:"candidates"`
	Combinations uint64            `json:"combinations"`
	Evaluated    uint64            `json:"evaluated"`
	Feasible     uint64            `json:"feasible"`
	Rejected     map[string]uint64 `json:"rejected,omitempty"`
	DurationMs   int64             `json:"duration_ms"`
	Cached       bool              `json:"cached"`
}

// GenerateScheduleResponse is returned by the generator. Schedule is nil when
// no feasible combination exists.
type GenerateScheduleResponse struct {
	Found    bool              `json:"found"`
	Schedule *ScheduleProposal `json:"schedule"`
	Stats    ScheduleStats     `json:"stats"`

	IgnoredPreferences []string `json:"-"`
}
