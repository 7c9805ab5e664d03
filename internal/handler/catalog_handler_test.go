package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tessera-api/internal/dto"
	"github.com/noah-isme/tessera-api/internal/models"
	appErrors "github.com/noah-isme/tessera-api/pkg/errors"
)

type catalogMock struct {
	filter        models.CourseFilter
	sectionFilter models.SectionFilter
	created       dto.CourseRequest
	deleted       string
	err           error
}

func (m *catalogMock) ListCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	m.filter = filter
	return []models.Course{{ID: "c1", Code: "CS101"}}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: 1}, m.err
}

func (m *catalogMock) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Course{ID: id}, nil
}

func (m *catalogMock) CreateCourse(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	m.created = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.Course{ID: "new", Code: req.Code, Credits: req.Credits}, nil
}

func (m *catalogMock) UpdateCourse(ctx context.Context, id string, req dto.CourseRequest) (*models.Course, error) {
	return &models.Course{ID: id, Code: req.Code}, m.err
}

func (m *catalogMock) DeleteCourse(ctx context.Context, id string) error {
	m.deleted = id
	return m.err
}

func (m *catalogMock) ListSections(ctx context.Context, filter models.SectionFilter) ([]models.Section, error) {
	m.sectionFilter = filter
	return []models.Section{}, m.err
}

func (m *catalogMock) GetSection(ctx context.Context, id string) (*models.Section, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Section{ID: id}, nil
}

func (m *catalogMock) CreateSection(ctx context.Context, req dto.SectionRequest) (*models.Section, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Section{ID: "s-new", CourseID: req.CourseID}, nil
}

func (m *catalogMock) UpdateSection(ctx context.Context, id string, req dto.SectionRequest) (*models.Section, error) {
	return &models.Section{ID: id}, m.err
}

func (m *catalogMock) DeleteSection(ctx context.Context, id string) error {
	m.deleted = id
	return m.err
}

func newCatalogRouter(mock *catalogMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	courses := &CourseHandler{catalog: mock}
	sections := &SectionHandler{catalog: mock}
	r := gin.New()
	r.GET("/courses", courses.List)
	r.GET("/courses/:id", courses.Get)
	r.POST("/courses", courses.Create)
	r.DELETE("/courses/:id", courses.Delete)
	r.GET("/sections", sections.List)
	r.POST("/sections", sections.Create)
	r.DELETE("/sections/:id", sections.Delete)
	return r
}

func TestCourseHandlerListParsesQuery(t *testing.T) {
	mock := &catalogMock{}
	r := newCatalogRouter(mock)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses?search=%20cs%20&page=2&limit=5&sort=title&order=desc", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.CourseFilter{Search: "cs", Page: 2, PageSize: 5, SortBy: "title", SortOrder: "desc"}, mock.filter)
	assert.Contains(t, w.Body.String(), `"pagination"`)
}

func TestCourseHandlerCreate(t *testing.T) {
	mock := &catalogMock{}
	r := newCatalogRouter(mock)

	w := postJSON(r, "/courses", `{"code":"CS101","title":"Intro","credits":3}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 3, mock.created.Credits)
}

func TestCourseHandlerPropagatesServiceErrors(t *testing.T) {
	mock := &catalogMock{err: appErrors.Clone(appErrors.ErrConflict, "course code already used")}
	r := newCatalogRouter(mock)

	w := postJSON(r, "/courses", `{"code":"CS101","title":"Intro","credits":3}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	mock.err = appErrors.Clone(appErrors.ErrNotFound, "course not found")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSectionHandlerListFiltersByCourse(t *testing.T) {
	mock := &catalogMock{}
	r := newCatalogRouter(mock)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sections?course_id=c1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c1", mock.sectionFilter.CourseID)
}

func TestSectionHandlerCreateAndDelete(t *testing.T) {
	mock := &catalogMock{}
	r := newCatalogRouter(mock)

	w := postJSON(r, "/sections", `{"course_id":"c1","section_number":"01","days":["M","W"],"start_time":"09:00","end_time":"10:00"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/sections", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/sections/s1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "s1", mock.deleted)
}
