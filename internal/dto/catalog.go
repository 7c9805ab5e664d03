package dto

// CourseRequest is the payload for creating or replacing a course.
type CourseRequest struct {
	Code        string  `json:"code" validate:"required,max=32"`
	Title       string  `json:"title" validate:"required,max=255"`
	Credits     int     `json:"credits" validate:"required,min=1,max=12"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// SectionRequest is the payload for creating or replacing a section.
type SectionRequest struct {
	CourseID      string   `json:"course_id" validate:"required"`
	SectionNumber string   `json:"section_number" validate:"required,max=16"`
	Instructor    *string  `json:"instructor" validate:"omitempty,max=255"`
	Days          []string `json:"days" validate:"required,min=1,max=5,dive,required"`
	StartTime     string   `json:"start_time" validate:"required"`
	EndTime       string   `json:"end_time" validate:"required"`
}
