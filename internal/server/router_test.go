package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/tessera-api/internal/handler"
	"github.com/noah-isme/tessera-api/internal/models"
	"github.com/noah-isme/tessera-api/internal/service"
	"github.com/noah-isme/tessera-api/pkg/config"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

type emptyFetcher struct{}

func (emptyFetcher) ListDetailsByCourseIDs(context.Context, []string) ([]models.SectionDetail, error) {
	return nil, nil
}

func newTestRouter(t *testing.T, db Pinger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:       config.EnvProduction,
		APIPrefix: "/api/v1",
		Metrics:   config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	engine, err := service.NewEngine(config.SchedulerConfig{MinCombinationSize: 2, MaxCombinationSize: 5})
	require.NoError(t, err)
	metrics := service.NewMetricsService()
	schedules := service.NewScheduleService(emptyFetcher{}, engine, nil, metrics, nil, nil, service.ScheduleConfig{})
	exports := service.NewExportService(schedules, service.ExportConfig{Enabled: true}, nil, nil, nil)
	catalog := service.NewCatalogService(nil, nil, nil, nil, nil)

	return NewRouter(Deps{
		Config:   cfg,
		Logger:   zap.NewNop(),
		Metrics:  metrics,
		Schedule: handler.NewScheduleHandler(schedules, exports),
		Courses:  handler.NewCourseHandler(catalog),
		Sections: handler.NewSectionHandler(catalog),
		DB:       db,
	})
}

func TestRouterServesGenerateAndMetrics(t *testing.T) {
	r := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedules/generate", bytes.NewBufferString(`{"selected_courses":["cs1"]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"found":false`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "schedule_generations_total")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterHidesDocsInProduction(t *testing.T) {
	r := newTestRouter(t, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReadinessReflectsDatabase(t *testing.T) {
	r := newTestRouter(t, pingerFunc(func(context.Context) error { return errors.New("down") }))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	r = newTestRouter(t, pingerFunc(func(context.Context) error { return nil }))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
