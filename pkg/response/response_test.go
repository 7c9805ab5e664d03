package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tessera-api/internal/models"
	appErrors "github.com/noah-isme/tessera-api/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestJSONEnvelope(t *testing.T) {
	c, w := newContext()
	JSON(c, http.StatusOK, gin.H{"found": true}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 3}, map[string]interface{}{"cache_hit": false})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["data"].(map[string]interface{})["found"])
	assert.Equal(t, float64(3), body["pagination"].(map[string]interface{})["total_count"])
	assert.Equal(t, false, body["meta"].(map[string]interface{})["cache_hit"])
}

func TestErrorEnvelope(t *testing.T) {
	c, w := newContext()
	Error(c, appErrors.Clone(appErrors.ErrNoSchedule, ""))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"NO_SCHEDULE"`)

	c, w = newContext()
	Error(c, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestAttachment(t *testing.T) {
	c, w := newContext()
	Attachment(c, "schedule.csv", "text/csv", []byte("a,b\n"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="schedule.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "a,b\n", w.Body.String())
}
