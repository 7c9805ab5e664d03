package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tessera-api/internal/dto"
	"github.com/noah-isme/tessera-api/internal/models"
	"github.com/noah-isme/tessera-api/internal/scheduler"
	appErrors "github.com/noah-isme/tessera-api/pkg/errors"
	"github.com/noah-isme/tessera-api/pkg/logger"
)

// ScheduleCachePattern matches every cached generation result.
const ScheduleCachePattern = "schedules:*"

// SectionFetcher loads the candidate sections of the selected courses.
type SectionFetcher interface {
	ListDetailsByCourseIDs(ctx context.Context, courseIDs []string) ([]models.SectionDetail, error)
}

type scheduleSelector interface {
	Select(ctx context.Context, sections []scheduler.Section, prefs scheduler.Preferences) (*scheduler.Result, scheduler.Stats, error)
	Options() scheduler.Options
}

// ScheduleConfig tunes generation behaviour.
type ScheduleConfig struct {
	Timeout            time.Duration
	MaxSelectedCourses int
	CacheTTL           time.Duration
}

// ScheduleService turns a course selection plus preferences into the best
// feasible weekly schedule.
type ScheduleService struct {
	fetcher   SectionFetcher
	engine    scheduleSelector
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ScheduleConfig
}

// NewScheduleService constructs a ScheduleService. cache and metrics may be nil.
func NewScheduleService(fetcher SectionFetcher, engine scheduleSelector, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg ScheduleConfig) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxSelectedCourses <= 0 {
		cfg.MaxSelectedCourses = 32
	}
	return &ScheduleService{
		fetcher:   fetcher,
		engine:    engine,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate picks the best schedule. A request with no feasible combination
// is not an error: the response has Found=false and a nil Schedule.
func (s *ScheduleService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	log := logger.FromContext(ctx, s.logger)

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule request")
	}
	courseIDs := normalizeCourseIDs(req.SelectedCourses)
	if len(courseIDs) > s.cfg.MaxSelectedCourses {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d courses can be selected", s.cfg.MaxSelectedCourses))
	}

	prefs, ignored := scheduler.ParsePreferences(rawPreferences(req.Preferences))
	if len(ignored) > 0 {
		log.Info("ignoring malformed preferences", zap.Strings("notes", ignored))
	}

	start := time.Now()
	key := s.cacheKey(courseIDs, prefs)
	var cached dto.GenerateScheduleResponse
	if s.cache.Get(ctx, key, &cached) {
		cached.Stats.Cached = true
		cached.IgnoredPreferences = ignored
		s.metrics.ObserveGeneration(OutcomeCached, time.Since(start), 0, nil)
		return &cached, nil
	}

	fetchStart := time.Now()
	details, err := s.fetcher.ListDetailsByCourseIDs(ctx, courseIDs)
	s.metrics.ObserveDBQuery("sections_by_courses", time.Since(fetchStart))
	if err != nil {
		s.metrics.ObserveGeneration(OutcomeError, time.Since(start), 0, nil)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
	}

	sections, index := s.toEngineSections(log, details)

	genCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	result, stats, err := s.engine.Select(genCtx, sections, prefs)
	elapsed := time.Since(start)
	if err != nil {
		return nil, s.selectError(log, err, elapsed, stats)
	}

	resp := &dto.GenerateScheduleResponse{
		Found:              result != nil,
		Stats:              toStatsDTO(stats, elapsed),
		IgnoredPreferences: ignored,
	}
	outcome := OutcomeNotFound
	if result != nil {
		outcome = OutcomeFound
		resp.Schedule = toProposal(result, index)
	}
	s.metrics.ObserveGeneration(outcome, elapsed, stats.Evaluated, resp.Stats.Rejected)
	log.Debug("schedule generated",
		zap.String("outcome", outcome),
		zap.Int("candidates", stats.Candidates),
		zap.Uint64("evaluated", stats.Evaluated),
		zap.Duration("elapsed", elapsed),
	)

	_ = s.cache.Set(ctx, key, resp, s.cfg.CacheTTL)
	return resp, nil
}

func (s *ScheduleService) selectError(log *zap.Logger, err error, elapsed time.Duration, stats scheduler.Stats) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		s.metrics.ObserveGeneration(OutcomeTimeout, elapsed, stats.Evaluated, nil)
		log.Warn("schedule generation aborted",
			zap.Uint64("evaluated", stats.Evaluated),
			zap.Uint64("combinations", stats.Combinations),
			zap.Error(err),
		)
		return appErrors.Wrap(err, appErrors.ErrGenerationTimeout.Code, appErrors.ErrGenerationTimeout.Status, appErrors.ErrGenerationTimeout.Message)
	case errors.Is(err, scheduler.ErrInvalidBounds), errors.Is(err, scheduler.ErrInvalidOptions):
		s.metrics.ObserveGeneration(OutcomeError, elapsed, 0, nil)
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	default:
		s.metrics.ObserveGeneration(OutcomeError, elapsed, 0, nil)
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate schedule")
	}
}

// toEngineSections converts catalog rows, skipping rows the engine cannot
// interpret and repeats of an id already seen. The catalog validates on
// write, so skips indicate legacy data.
func (s *ScheduleService) toEngineSections(log *zap.Logger, details []models.SectionDetail) ([]scheduler.Section, map[string]models.SectionDetail) {
	sections := make([]scheduler.Section, 0, len(details))
	index := make(map[string]models.SectionDetail, len(details))
	for _, detail := range details {
		if _, dup := index[detail.ID]; dup {
			log.Warn("skipping duplicate section id", zap.String("section_id", detail.ID))
			continue
		}
		section, err := EngineSection(detail)
		if err != nil {
			log.Warn("skipping unusable section", zap.String("section_id", detail.ID), zap.Error(err))
			continue
		}
		sections = append(sections, section)
		index[detail.ID] = detail
	}
	return sections, index
}

// EngineSection converts a catalog row into the scheduler's representation.
func EngineSection(detail models.SectionDetail) (scheduler.Section, error) {
	days, unknown := scheduler.ParseDaySet(detail.Days)
	if len(unknown) > 0 {
		return scheduler.Section{}, fmt.Errorf("unknown day codes %v", unknown)
	}
	if days.IsEmpty() {
		return scheduler.Section{}, fmt.Errorf("no meeting days")
	}
	start, err := scheduler.ParseClock(detail.StartTime)
	if err != nil {
		return scheduler.Section{}, fmt.Errorf("start time: %w", err)
	}
	end, err := scheduler.ParseClock(detail.EndTime)
	if err != nil {
		return scheduler.Section{}, fmt.Errorf("end time: %w", err)
	}
	if start >= end {
		return scheduler.Section{}, fmt.Errorf("start %s is not before end %s", start, end)
	}
	if detail.Credits <= 0 {
		return scheduler.Section{}, fmt.Errorf("credits %d must be positive", detail.Credits)
	}
	return scheduler.Section{
		ID:       detail.ID,
		CourseID: detail.CourseID,
		Label:    detail.SectionNumber,
		Credits:  detail.Credits,
		Days:     days,
		Start:    start,
		End:      end,
	}, nil
}

func (s *ScheduleService) cacheKey(courseIDs []string, prefs scheduler.Preferences) string {
	sorted := append([]string(nil), courseIDs...)
	sort.Strings(sorted)

	opts := s.engine.Options()
	earliest := ""
	if prefs.EarliestStart != nil {
		earliest = prefs.EarliestStart.String()
	}
	payload, _ := json.Marshal(struct {
		Courses  []string `json:"c"`
		Earliest string   `json:"e"`
		Avoid    uint8    `json:"a"`
		MaxDay   int      `json:"m"`
		Window   string   `json:"w"`
		Sizes    [2]int   `json:"s"`
		Credits  [2]int   `json:"cr"`
		Policy   string   `json:"p"`
	}{
		Courses:  sorted,
		Earliest: earliest,
		Avoid:    uint8(prefs.AvoidDays),
		MaxDay:   prefs.MaxClassesPerDay,
		Window:   string(prefs.PreferredTime),
		Sizes:    [2]int{opts.MinSize, opts.MaxSize},
		Credits:  [2]int{opts.Filter.MinCredits, opts.Filter.MaxCredits},
		Policy:   string(opts.Filter.Policy),
	})
	sum := sha256.Sum256(payload)
	return "schedules:" + hex.EncodeToString(sum[:16])
}

func normalizeCourseIDs(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func rawPreferences(p dto.SchedulePreferencesRequest) scheduler.RawPreferences {
	return scheduler.RawPreferences{
		EarliestStart:    p.EarliestStart.String(),
		AvoidDays:        []string(p.AvoidDays),
		MaxClassesPerDay: p.MaxClassesPerDay.String(),
		PreferredTime:    p.PreferredTime.String(),
	}
}

func toStatsDTO(stats scheduler.Stats, elapsed time.Duration) dto.ScheduleStats {
	out := dto.ScheduleStats{
		State:        string(stats.State),
		Candidates:   stats.Candidates,
		Combinations: stats.Combinations,
		Evaluated:    stats.Evaluated,
		Feasible:     stats.Feasible,
		DurationMs:   elapsed.Milliseconds(),
	}
	for reason, count := range stats.Rejected {
		if count == 0 {
			continue
		}
		if out.Rejected == nil {
			out.Rejected = make(map[string]uint64)
		}
		out.Rejected[string(reason)] = count
	}
	return out
}

func toProposal(result *scheduler.Result, index map[string]models.SectionDetail) *dto.ScheduleProposal {
	proposal := &dto.ScheduleProposal{
		Sections:     make([]dto.ScheduleSection, 0, len(result.Sections)),
		TotalCredits: result.TotalCredits,
		Score:        result.Score,
	}
	for _, section := range result.Sections {
		detail := index[section.ID]
		proposal.Sections = append(proposal.Sections, dto.ScheduleSection{
			ID:            section.ID,
			CourseID:      section.CourseID,
			CourseCode:    detail.CourseCode,
			CourseTitle:   detail.CourseTitle,
			SectionNumber: section.Label,
			Instructor:    detail.Instructor,
			Days:          section.Days.Codes(),
			StartTime:     section.Start.String(),
			EndTime:       section.End.String(),
			Credits:       section.Credits,
		})
	}
	return proposal
}
