package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/tessera-api/internal/dto"
	"github.com/noah-isme/tessera-api/internal/models"
	"github.com/noah-isme/tessera-api/internal/scheduler"
	appErrors "github.com/noah-isme/tessera-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type sectionRepository interface {
	List(ctx context.Context, filter models.SectionFilter) ([]models.Section, error)
	FindByID(ctx context.Context, id string) (*models.Section, error)
	Create(ctx context.Context, section *models.Section) error
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id string) error
}

// CatalogService manages courses and sections. Every successful mutation
// drops cached schedules since they may reference stale sections.
type CatalogService struct {
	courses   courseRepository
	sections  sectionRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(courses courseRepository, sections sectionRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{courses: courses, sections: sections, cache: cache, validator: validate, logger: logger}
}

// ListCourses returns courses plus pagination data.
func (s *CatalogService) ListCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return courses, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// GetCourse returns a course by id.
func (s *CatalogService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "course")
	}
	return course, nil
}

// CreateCourse registers a new course.
func (s *CatalogService) CreateCourse(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	code := normalizeCode(req.Code)
	if err := s.ensureUniqueCode(ctx, code, ""); err != nil {
		return nil, err
	}

	course := &models.Course{
		Code:        code,
		Title:       strings.TrimSpace(req.Title),
		Credits:     req.Credits,
		Description: normalizeOptional(req.Description),
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.invalidate(ctx)
	return course, nil
}

// UpdateCourse replaces a course's attributes.
func (s *CatalogService) UpdateCourse(ctx context.Context, id string, req dto.CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "course")
	}
	code := normalizeCode(req.Code)
	if err := s.ensureUniqueCode(ctx, code, id); err != nil {
		return nil, err
	}

	course.Code = code
	course.Title = strings.TrimSpace(req.Title)
	course.Credits = req.Credits
	course.Description = normalizeOptional(req.Description)
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	s.invalidate(ctx)
	return course, nil
}

// DeleteCourse removes a course and its sections.
func (s *CatalogService) DeleteCourse(ctx context.Context, id string) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return notFoundOrInternal(err, "course")
	}
	s.invalidate(ctx)
	return nil
}

// ListSections returns sections, optionally for one course.
func (s *CatalogService) ListSections(ctx context.Context, filter models.SectionFilter) ([]models.Section, error) {
	sections, err := s.sections.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	if sections == nil {
		sections = []models.Section{}
	}
	return sections, nil
}

// GetSection returns a section by id.
func (s *CatalogService) GetSection(ctx context.Context, id string) (*models.Section, error) {
	section, err := s.sections.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "section")
	}
	return section, nil
}

// CreateSection adds a section to an existing course.
func (s *CatalogService) CreateSection(ctx context.Context, req dto.SectionRequest) (*models.Section, error) {
	section := &models.Section{}
	if err := s.applySection(ctx, section, req); err != nil {
		return nil, err
	}
	if err := s.sections.Create(ctx, section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create section")
	}
	s.invalidate(ctx)
	return section, nil
}

// UpdateSection replaces a section's attributes.
func (s *CatalogService) UpdateSection(ctx context.Context, id string, req dto.SectionRequest) (*models.Section, error) {
	section, err := s.sections.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "section")
	}
	if err := s.applySection(ctx, section, req); err != nil {
		return nil, err
	}
	if err := s.sections.Update(ctx, section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update section")
	}
	s.invalidate(ctx)
	return section, nil
}

// DeleteSection removes a section.
func (s *CatalogService) DeleteSection(ctx context.Context, id string) error {
	if err := s.sections.Delete(ctx, id); err != nil {
		return notFoundOrInternal(err, "section")
	}
	s.invalidate(ctx)
	return nil
}

// applySection validates req and copies it onto section with days and
// times in canonical form.
func (s *CatalogService) applySection(ctx context.Context, section *models.Section, req dto.SectionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	days, unknown := scheduler.ParseDaySet(req.Days)
	if len(unknown) > 0 {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day codes: %s", strings.Join(unknown, ", ")))
	}
	start, err := scheduler.ParseClock(req.StartTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start_time")
	}
	end, err := scheduler.ParseClock(req.EndTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end_time")
	}
	if start >= end {
		return appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}
	courseID := strings.TrimSpace(req.CourseID)
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "course_id does not reference an existing course")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	section.CourseID = courseID
	section.SectionNumber = strings.TrimSpace(req.SectionNumber)
	section.Instructor = normalizeOptional(req.Instructor)
	section.Days = pq.StringArray(days.Codes())
	section.StartTime = start.String()
	section.EndTime = end.String()
	return nil
}

func (s *CatalogService) ensureUniqueCode(ctx context.Context, code, excludeID string) error {
	exists, err := s.courses.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "course code already used")
	}
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, ScheduleCachePattern); err != nil {
		s.logger.Warn("failed to drop cached schedules after catalog change", zap.Error(err))
	}
}

func notFoundOrInternal(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+entity)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
