package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tessera-api/internal/dto"
)

type stubGenerator struct {
	resp *dto.GenerateScheduleResponse
	err  error
}

func (s stubGenerator) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	return s.resp, s.err
}

func foundResponse() *dto.GenerateScheduleResponse {
	instructor := "Dr. Ada"
	return &dto.GenerateScheduleResponse{
		Found: true,
		Schedule: &dto.ScheduleProposal{
			Sections: []dto.ScheduleSection{
				{CourseCode: "CS1", CourseTitle: "Intro", SectionNumber: "01", Instructor: &instructor, Days: []string{"M", "W"}, StartTime: "09:00", EndTime: "10:00", Credits: 6},
				{CourseCode: "CS2", CourseTitle: "Systems", SectionNumber: "02", Days: []string{"T", "Th"}, StartTime: "09:00", EndTime: "10:00", Credits: 6},
			},
			TotalCredits: 12,
			Score:        6,
		},
	}
}

func newExportService(gen scheduleGenerator) *ExportService {
	svc := NewExportService(gen, ExportConfig{Enabled: true}, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 1, 5, 8, 30, 0, 0, time.UTC) }
	return svc
}

func TestExportServiceCSV(t *testing.T) {
	file, err := newExportService(stubGenerator{resp: foundResponse()}).Export(context.Background(), dto.GenerateScheduleRequest{}, "CSV")
	require.NoError(t, err)
	assert.Equal(t, "schedule_20260105_083000.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)
	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	assert.Equal(t, "Course,Title,Section,Instructor,Days,Start,End,Credits", lines[0])
	assert.Equal(t, "CS1,Intro,01,Dr. Ada,M W,09:00,10:00,6", lines[1])
	assert.Equal(t, "CS2,Systems,02,,T Th,09:00,10:00,6", lines[2])
	assert.Equal(t, "Total credits,12", lines[4])
}

func TestExportServicePDF(t *testing.T) {
	file, err := newExportService(stubGenerator{resp: foundResponse()}).Export(context.Background(), dto.GenerateScheduleRequest{}, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Data), "%PDF-"))
}

func TestExportServiceNoSchedule(t *testing.T) {
	_, err := newExportService(stubGenerator{resp: &dto.GenerateScheduleResponse{Found: false}}).Export(context.Background(), dto.GenerateScheduleRequest{}, "csv")
	requireAppError(t, err, http.StatusNotFound)
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	_, err := newExportService(stubGenerator{resp: foundResponse()}).Export(context.Background(), dto.GenerateScheduleRequest{}, "xlsx")
	requireAppError(t, err, http.StatusBadRequest)
}

func TestExportServiceDisabled(t *testing.T) {
	svc := NewExportService(stubGenerator{resp: foundResponse()}, ExportConfig{}, nil, nil, nil)
	_, err := svc.Export(context.Background(), dto.GenerateScheduleRequest{}, "csv")
	requireAppError(t, err, http.StatusNotFound)
}
