package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tessera-api/internal/dto"
	"github.com/noah-isme/tessera-api/pkg/config"
)

const testCatalog = `
courses:
  - code: CS101
    title: Programming I
    credits: 4
    sections:
      - number: "01"
        instructor: Dr. Ada
        days: [M, W]
        start: "08:00"
        end: "09:15"
      - number: "02"
        days: [M, W]
        start: "13:00"
        end: "14:15"
  - code: MATH201
    title: Linear Algebra
    credits: 4
    sections:
      - number: "01"
        days: [T, Th]
        start: "10:00"
        end: "11:15"
  - code: PHYS110
    title: Mechanics
    credits: 4
    sections:
      - number: "01"
        days: [F]
        start: "09:00"
        end: "11:30"
      - number: "02"
        days: [M, W]
        start: "15:00"
        end: "16:15"
`

func testConfig() (*config.Config, error) {
	return &config.Config{
		Env: config.EnvDevelopment,
		Scheduler: config.SchedulerConfig{
			MinCombinationSize: 2,
			MaxCombinationSize: 5,
			MinCredits:         12,
			MaxCredits:         18,
			Workers:            2,
			Timeout:            5 * time.Second,
			ConflictPolicy:     "exact",
		},
	}, nil
}

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(testConfig)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestPlanPrintsTable(t *testing.T) {
	path := writeCatalog(t, testCatalog)
	out, _, err := run(t, "plan", "--catalog", path, "--course", "CS101", "--course", "MATH201", "--course", "PHYS110")
	require.NoError(t, err)
	assert.Contains(t, out, "CS101")
	assert.Contains(t, out, "Dr. Ada")
	assert.Contains(t, out, "Total credits: 12")
}

func TestPlanJSONHonoursPreferences(t *testing.T) {
	path := writeCatalog(t, testCatalog)
	out, stderr, err := run(t, "plan", "--catalog", path,
		"--course", "CS101,MATH201,PHYS110", "--avoid", "F", "--prefer", "afternoon", "--earliest", "soon", "--json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "warning:")

	var resp dto.GenerateScheduleResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.True(t, resp.Found)
	ids := make([]string, 0, len(resp.Schedule.Sections))
	for _, s := range resp.Schedule.Sections {
		ids = append(ids, s.ID)
	}
	assert.Contains(t, ids, "PHYS110-02")
	assert.Contains(t, ids, "CS101-02")
	assert.Equal(t, 12, resp.Schedule.TotalCredits)
}

func TestPlanReportsNoSchedule(t *testing.T) {
	path := writeCatalog(t, testCatalog)
	out, _, err := run(t, "plan", "--catalog", path, "--course", "CS101")
	require.NoError(t, err)
	assert.Contains(t, out, "No feasible schedule")
}

func TestPlanWritesExport(t *testing.T) {
	path := writeCatalog(t, testCatalog)
	exportPath := filepath.Join(t.TempDir(), "week.csv")
	_, _, err := run(t, "plan", "--catalog", path, "--course", "CS101,MATH201,PHYS110", "--export", exportPath)
	require.NoError(t, err)
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "MATH201")
}

func TestPlanRefusesInvalidCatalog(t *testing.T) {
	path := writeCatalog(t, `
courses:
  - code: CS1
    credits: 6
    sections:
      - {number: "01", instructor: Dr. Early, days: [M], start: "08:00", end: "09:00"}
      - {number: "01", instructor: Dr. Late, days: [T], start: "18:00", end: "19:00"}
  - code: CS2
    credits: 6
    sections:
      - {number: "01", days: [W], start: "08:00", end: "09:00"}
`)
	out, stderr, err := run(t, "plan", "--catalog", path, "--course", "CS1,CS2")
	require.Error(t, err)
	assert.Contains(t, stderr, "duplicate section number")
	assert.Empty(t, out)
}

func TestPlanRequiresFlags(t *testing.T) {
	_, _, err := run(t, "plan", "--course", "CS101")
	assert.Error(t, err)
}

func TestCatalogValidate(t *testing.T) {
	out, _, err := run(t, "catalog", "validate", writeCatalog(t, testCatalog))
	require.NoError(t, err)
	assert.Contains(t, out, "3 courses, 5 sections, ok")

	bad := writeCatalog(t, "courses:\n  - code: X1\n    credits: 3\n")
	_, stderr, err := run(t, "catalog", "validate", bad)
	assert.Error(t, err)
	assert.Contains(t, stderr, "no sections")
}

func TestCatalogShow(t *testing.T) {
	out, _, err := run(t, "catalog", "show", writeCatalog(t, testCatalog))
	require.NoError(t, err)
	assert.Contains(t, out, "Linear Algebra")
}
