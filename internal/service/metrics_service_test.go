package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest("POST", "/api/v1/schedules/generate", 200, 20*time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.ObserveDBQuery("sections_by_courses", 4*time.Millisecond)
	m.ObserveGeneration(OutcomeFound, 10*time.Millisecond, 26, map[string]uint64{"credit_band": 20})
	m.ObserveGeneration(OutcomeCached, time.Millisecond, 26, nil)

	snap := m.Snapshot()
	assert.Equal(t, uint64(1), snap.RequestsTotal)
	assert.InDelta(t, 20.0, snap.AverageRequestDurationMs, 0.001)
	assert.InDelta(t, 0.5, snap.CacheHitRatio, 0.0001)
	assert.Equal(t, uint64(1), snap.DBQueryCount)
	assert.Equal(t, uint64(2), snap.Generations)
	assert.Equal(t, uint64(1), snap.SchedulesFound)
	assert.Equal(t, uint64(26), snap.CombinationsEvaluated)
}

func TestMetricsServiceExposition(t *testing.T) {
	m := NewMetricsService()
	m.ObserveGeneration(OutcomeNotFound, time.Millisecond, 3, map[string]uint64{"time_conflict": 2})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `schedule_generations_total{outcome="not_found"} 1`))
	assert.True(t, strings.Contains(body, `schedule_combinations_rejected_total{reason="time_conflict"} 2`))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveGeneration(OutcomeFound, time.Second, 1, nil)
	m.RecordCacheOperation(true, time.Second)
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
