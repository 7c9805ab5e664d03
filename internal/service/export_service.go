package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tessera-api/internal/dto"
	appErrors "github.com/noah-isme/tessera-api/pkg/errors"
	"github.com/noah-isme/tessera-api/pkg/export"
)

// Supported export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var scheduleHeaders = []string{"Course", "Title", "Section", "Instructor", "Days", "Start", "End", "Credits"}

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Enabled  bool
	PDFTitle string
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders generated schedules as CSV or PDF documents.
type ExportService struct {
	generator scheduleGenerator
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to
// the pkg/export implementations.
func NewExportService(generator scheduleGenerator, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if cfg.PDFTitle == "" {
		cfg.PDFTitle = "Weekly schedule"
	}
	return &ExportService{generator: generator, csv: csv, pdf: pdf, logger: logger, cfg: cfg, now: time.Now}
}

// Export generates a schedule for req and renders it in format.
func (s *ExportService) Export(ctx context.Context, req dto.GenerateScheduleRequest, format string) (*ExportFile, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrFeatureDisabled, "schedule exports are disabled")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	resp, err := s.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.Found || resp.Schedule == nil {
		return nil, appErrors.Clone(appErrors.ErrNoSchedule, "")
	}

	dataset := scheduleDataset(resp.Schedule)
	var payload []byte
	var contentType string
	switch format {
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, s.cfg.PDFTitle)
		contentType = "application/pdf"
	default:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	}
	if err != nil {
		s.logger.Error("render schedule export", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("schedule_%s.%s", s.now().UTC().Format("20060102_150405"), format),
		ContentType: contentType,
		Data:        payload,
	}, nil
}

func scheduleDataset(schedule *dto.ScheduleProposal) export.Dataset {
	rows := make([]map[string]string, 0, len(schedule.Sections))
	for _, section := range schedule.Sections {
		instructor := ""
		if section.Instructor != nil {
			instructor = *section.Instructor
		}
		rows = append(rows, map[string]string{
			"Course":     section.CourseCode,
			"Title":      section.CourseTitle,
			"Section":    section.SectionNumber,
			"Instructor": instructor,
			"Days":       strings.Join(section.Days, " "),
			"Start":      section.StartTime,
			"End":        section.EndTime,
			"Credits":    fmt.Sprintf("%d", section.Credits),
		})
	}
	return export.Dataset{
		Headers: scheduleHeaders,
		Rows:    rows,
		Summary: []export.SummaryLine{
			{Label: "Total credits", Value: fmt.Sprintf("%d", schedule.TotalCredits)},
			{Label: "Preference score", Value: fmt.Sprintf("%d", schedule.Score)},
		},
	}
}
