package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseshelf/courseshelf/internal/models"
	"github.com/courseshelf/courseshelf/internal/service"
	appErrors "github.com/courseshelf/courseshelf/pkg/errors"
	"github.com/courseshelf/courseshelf/pkg/response"
)

type libraryServiceMock struct {
	importResult models.ImportResult
	importErr    error
	courses      []models.Course
	coursesErr   error
	stored       []models.StoredCourse
	removeErr    error
	rescanJob    service.RescanJob
	rescanErr    error

	lastImportPath string
	removedID      string
}

func (m *libraryServiceMock) ImportCourse(ctx context.Context, req service.ImportRequest) (models.ImportResult, error) {
	m.lastImportPath = req.Path
	return m.importResult, m.importErr
}

func (m *libraryServiceMock) ImportFolder(ctx context.Context, req service.ImportRequest) (models.ImportResult, error) {
	m.lastImportPath = req.Path
	return m.importResult, m.importErr
}

func (m *libraryServiceMock) Courses(ctx context.Context) ([]models.Course, error) {
	return m.courses, m.coursesErr
}

func (m *libraryServiceMock) StoredCourses(ctx context.Context) []models.StoredCourse {
	return m.stored
}

func (m *libraryServiceMock) RemoveCourse(ctx context.Context, id string) error {
	m.removedID = id
	return m.removeErr
}

func (m *libraryServiceMock) Rescan(ctx context.Context) (service.RescanJob, error) {
	return m.rescanJob, m.rescanErr
}

func performJSON(t *testing.T, h gin.HandlerFunc, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	h(c)
	return w
}

func TestLibraryHandlerImportCourse(t *testing.T) {
	mockSvc := &libraryServiceMock{importResult: models.ImportResult{Added: 1}}
	h := NewLibraryHandler(mockSvc)

	payload, _ := json.Marshal(service.ImportRequest{Path: "/lib/go"})
	w := performJSON(t, h.ImportCourse, http.MethodPost, "/library/courses", payload)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/lib/go", mockSvc.lastImportPath)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["added"])
}

func TestLibraryHandlerImportCourseInvalidBody(t *testing.T) {
	h := NewLibraryHandler(&libraryServiceMock{})

	w := performJSON(t, h.ImportCourse, http.MethodPost, "/library/courses", []byte(`{"path":`))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLibraryHandlerImportFolderNoContent(t *testing.T) {
	mockSvc := &libraryServiceMock{importResult: models.ImportResult{NoCoursesFound: true}}
	h := NewLibraryHandler(mockSvc)

	payload, _ := json.Marshal(service.ImportRequest{Path: "/lib/misc"})
	w := performJSON(t, h.ImportFolder, http.MethodPost, "/library/imports", payload)

	require.Equal(t, http.StatusCreated, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, true, data["no_courses_found"])
}

func TestLibraryHandlerCourses(t *testing.T) {
	mockSvc := &libraryServiceMock{courses: []models.Course{{ID: "c1", TotalVideos: 2}}}
	h := NewLibraryHandler(mockSvc)

	w := performJSON(t, h.Courses, http.MethodGet, "/library/courses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_videos":2`)
}

func TestLibraryHandlerCoursesServiceError(t *testing.T) {
	mockSvc := &libraryServiceMock{coursesErr: appErrors.ErrInternal}
	h := NewLibraryHandler(mockSvc)

	w := performJSON(t, h.Courses, http.MethodGet, "/library/courses", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLibraryHandlerRemove(t *testing.T) {
	mockSvc := &libraryServiceMock{}
	h := NewLibraryHandler(mockSvc)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/library/courses/c1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "c1"}}

	h.Remove(c)
	// Flush the deferred status header, as gin's engine does after handlers.
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "c1", mockSvc.removedID)
}

func TestLibraryHandlerRemoveNotFound(t *testing.T) {
	mockSvc := &libraryServiceMock{removeErr: appErrors.ErrNotFound}
	h := NewLibraryHandler(mockSvc)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/library/courses/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Remove(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLibraryHandlerRescan(t *testing.T) {
	mockSvc := &libraryServiceMock{rescanJob: service.RescanJob{JobID: "j1"}}
	h := NewLibraryHandler(mockSvc)

	w := performJSON(t, h.Rescan, http.MethodPost, "/library/rescan", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"job_id":"j1"`)
}
