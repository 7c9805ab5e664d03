// Package catalogfile loads course catalogs from YAML files for offline
// planning. Course codes double as course IDs.
package catalogfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lib/pq"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/tessera-api/internal/models"
	"github.com/noah-isme/tessera-api/internal/scheduler"
)

type catalogFile struct {
	Courses []courseFile `yaml:"courses"`
}

type courseFile struct {
	Code     string        `yaml:"code"`
	Title    string        `yaml:"title"`
	Credits  int           `yaml:"credits"`
	Sections []sectionFile `yaml:"sections"`
}

type sectionFile struct {
	Number     string   `yaml:"number"`
	Instructor string   `yaml:"instructor"`
	Days       []string `yaml:"days"`
	Start      string   `yaml:"start"`
	End        string   `yaml:"end"`
}

// Catalog is an in-memory catalog. It satisfies the section fetcher used by
// the schedule service.
type Catalog struct {
	courses  []models.Course
	sections map[string][]models.SectionDetail
}

// Load reads and parses a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog. Structural problems fail; row level problems
// are left for Validate so they can be reported together.
func Parse(data []byte) (*Catalog, error) {
	var raw catalogFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(raw.Courses) == 0 {
		return nil, errors.New("catalog has no courses")
	}

	cat := &Catalog{sections: make(map[string][]models.SectionDetail, len(raw.Courses))}
	for _, c := range raw.Courses {
		code := strings.ToUpper(strings.TrimSpace(c.Code))
		course := models.Course{ID: code, Code: code, Title: strings.TrimSpace(c.Title), Credits: c.Credits}
		cat.courses = append(cat.courses, course)
		for _, s := range c.Sections {
			number := strings.TrimSpace(s.Number)
			detail := models.SectionDetail{
				Section: models.Section{
					ID:            code + "-" + number,
					CourseID:      code,
					SectionNumber: number,
					Days:          pq.StringArray(s.Days),
					StartTime:     strings.TrimSpace(s.Start),
					EndTime:       strings.TrimSpace(s.End),
				},
				CourseCode:  code,
				CourseTitle: course.Title,
				Credits:     course.Credits,
			}
			if instructor := strings.TrimSpace(s.Instructor); instructor != "" {
				detail.Instructor = &instructor
			}
			cat.sections[code] = append(cat.sections[code], detail)
		}
	}
	return cat, nil
}

// Courses returns the catalog courses in file order.
func (c *Catalog) Courses() []models.Course {
	return c.courses
}

// SectionCount returns the number of sections across all courses.
func (c *Catalog) SectionCount() int {
	n := 0
	for _, sections := range c.sections {
		n += len(sections)
	}
	return n
}

// ListDetailsByCourseIDs returns sections of the given course codes in the
// order the codes were given, then file order. Codes match case-insensitively
// and each course is returned once.
func (c *Catalog) ListDetailsByCourseIDs(_ context.Context, courseIDs []string) ([]models.SectionDetail, error) {
	var out []models.SectionDetail
	seen := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		code := strings.ToUpper(strings.TrimSpace(id))
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, c.sections[code]...)
	}
	return out, nil
}

// Validate reports every problem found in the catalog.
func (c *Catalog) Validate() []error {
	var problems []error
	seenCourse := make(map[string]bool, len(c.courses))
	for _, course := range c.courses {
		switch {
		case course.Code == "":
			problems = append(problems, errors.New("course with empty code"))
			continue
		case seenCourse[course.Code]:
			problems = append(problems, fmt.Errorf("course %s: duplicate code", course.Code))
		}
		seenCourse[course.Code] = true
		if course.Credits <= 0 {
			problems = append(problems, fmt.Errorf("course %s: credits must be positive", course.Code))
		}
		if len(c.sections[course.Code]) == 0 {
			problems = append(problems, fmt.Errorf("course %s: no sections", course.Code))
		}
	}

	// courses sharing a code share one section list; visit it once
	visited := make(map[string]bool, len(c.courses))
	for _, course := range c.courses {
		if visited[course.Code] {
			continue
		}
		visited[course.Code] = true
		seenNumber := make(map[string]bool)
		for _, s := range c.sections[course.Code] {
			if s.SectionNumber != "" && seenNumber[s.SectionNumber] {
				problems = append(problems, fmt.Errorf("section %s: duplicate section number", s.ID))
				continue
			}
			seenNumber[s.SectionNumber] = true
			if err := validateSection(s); err != nil {
				problems = append(problems, fmt.Errorf("section %s: %w", s.ID, err))
			}
		}
	}
	return problems
}

func validateSection(s models.SectionDetail) error {
	if s.SectionNumber == "" {
		return errors.New("missing section number")
	}
	days, unknown := scheduler.ParseDaySet(s.Days)
	if len(unknown) > 0 {
		return fmt.Errorf("unknown days %v", unknown)
	}
	if days.IsEmpty() {
		return errors.New("no meeting days")
	}
	start, err := scheduler.ParseClock(s.StartTime)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := scheduler.ParseClock(s.EndTime)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if start >= end {
		return fmt.Errorf("start %s is not before end %s", start, end)
	}
	return nil
}
