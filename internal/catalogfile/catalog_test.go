package catalogfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
courses:
  - code: cs1
    title: Programming I
    credits: 3
    sections:
      - number: "01"
        instructor: Dr. Ada
        days: [M, W]
        start: "09:00"
        end: "10:00"
  - code: CS2
    title: Programming II
    credits: 4
    sections:
      - number: "01"
        days: [T, Th]
        start: "09:00"
        end: "10:00"
      - number: "02"
        days: [T, Th]
        start: "13:00"
        end: "14:15"
`

func TestLoadAndFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cat.Courses(), 2)
	assert.Equal(t, 3, cat.SectionCount())
	assert.Empty(t, cat.Validate())

	details, err := cat.ListDetailsByCourseIDs(context.Background(), []string{"cs2", "CS1", "missing"})
	require.NoError(t, err)
	require.Len(t, details, 3)
	assert.Equal(t, "CS2-01", details[0].ID)
	assert.Equal(t, 4, details[0].Credits)
	assert.Equal(t, "CS1-01", details[2].ID)
	require.NotNil(t, details[2].Instructor)
	assert.Equal(t, "Dr. Ada", *details[2].Instructor)
}

func TestListDetailsDedupesCaseInsensitively(t *testing.T) {
	cat, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	details, err := cat.ListDetailsByCourseIDs(context.Background(), []string{"cs2", "CS2", " Cs2 ", "cs1"})
	require.NoError(t, err)
	require.Len(t, details, 3)
	assert.Equal(t, "CS2-01", details[0].ID)
	assert.Equal(t, "CS2-02", details[1].ID)
	assert.Equal(t, "CS1-01", details[2].ID)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cat, err := Parse([]byte(`
courses:
  - code: CS1
    credits: 0
    sections:
      - number: "01"
        days: [Sat]
        start: "09:00"
        end: "10:00"
  - code: CS1
    credits: 3
  - code: CS3
    credits: 3
    sections:
      - number: "01"
        days: [M]
        start: "11:00"
        end: "10:00"
`))
	require.NoError(t, err)
	problems := cat.Validate()
	assert.Len(t, problems, 4)
}

func TestParseRejectsEmptyAndMalformed(t *testing.T) {
	_, err := Parse([]byte("courses: []"))
	assert.Error(t, err)
	_, err = Parse([]byte("courses: [unterminated"))
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateReportsDuplicateSectionNumber(t *testing.T) {
	cat, err := Parse([]byte(`
courses:
  - code: CS1
    credits: 4
    sections:
      - number: "01"
        instructor: Dr. Early
        days: [M]
        start: "08:00"
        end: "09:00"
      - number: "01"
        instructor: Dr. Late
        days: [T]
        start: "18:00"
        end: "19:00"
`))
	require.NoError(t, err)
	problems := cat.Validate()
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Error(), "CS1-01: duplicate section number")
}
