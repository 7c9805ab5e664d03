package models

import (
	"time"

	"github.com/lib/pq"
)

// Section is one scheduled offering of a course. Days holds day codes
// (M, T, W, Th, F); StartTime and EndTime are HH:MM strings.
type Section struct {
	ID            string         `db:"id" json:"id"`
	CourseID      string         `db:"course_id" json:"course_id"`
	SectionNumber string         `db:"section_number" json:"section_number"`
	Instructor    *string        `db:"instructor" json:"instructor,omitempty"`
	Days          pq.StringArray `db:"days" json:"days"`
	StartTime     string         `db:"start_time" json:"start_time"`
	EndTime       string         `db:"end_time" json:"end_time"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// SectionFilter narrows section listings.
type SectionFilter struct {
	CourseID string
}

// SectionDetail joins a section with the course attributes the scheduler needs.
type SectionDetail struct {
	Section
	CourseCode  string `db:"course_code" json:"course_code"`
	CourseTitle string `db:"course_title" json:"course_title"`
	Credits     int    `db:"credits" json:"credits"`
}
