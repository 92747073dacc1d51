package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courseshelf/courseshelf/internal/models"
	"github.com/courseshelf/courseshelf/internal/service"
	appErrors "github.com/courseshelf/courseshelf/pkg/errors"
	"github.com/courseshelf/courseshelf/pkg/response"
)

type libraryService interface {
	ImportCourse(ctx context.Context, req service.ImportRequest) (models.ImportResult, error)
	ImportFolder(ctx context.Context, req service.ImportRequest) (models.ImportResult, error)
	Courses(ctx context.Context) ([]models.Course, error)
	StoredCourses(ctx context.Context) []models.StoredCourse
	RemoveCourse(ctx context.Context, id string) error
	Rescan(ctx context.Context) (service.RescanJob, error)
}

// LibraryHandler exposes the course library endpoints.
type LibraryHandler struct {
	service libraryService
}

// NewLibraryHandler constructs a library handler.
func NewLibraryHandler(svc libraryService) *LibraryHandler {
	return &LibraryHandler{service: svc}
}

// ImportCourse registers one picked folder as exactly one course.
func (h *LibraryHandler) ImportCourse(c *gin.Context) {
	var req service.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.ImportCourse(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ImportFolder auto-detects one-or-many courses inside a picked folder.
func (h *LibraryHandler) ImportFolder(c *gin.Context) {
	var req service.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.ImportFolder(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Courses returns the scanned course graph.
func (h *LibraryHandler) Courses(c *gin.Context) {
	courses, err := h.service.Courses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// Registry returns the persisted stored-course records.
func (h *LibraryHandler) Registry(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.StoredCourses(c.Request.Context()))
}

// Remove deletes a stored course and releases its folder grant.
func (h *LibraryHandler) Remove(c *gin.Context) {
	if err := h.service.RemoveCourse(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Rescan queues a background refresh of the scanned course graph.
func (h *LibraryHandler) Rescan(c *gin.Context) {
	job, err := h.service.Rescan(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// Register mounts the library routes on the given group.
func (h *LibraryHandler) Register(group *gin.RouterGroup) {
	group.POST("/library/courses", h.ImportCourse)
	group.POST("/library/imports", h.ImportFolder)
	group.GET("/library/courses", h.Courses)
	group.GET("/library/registry", h.Registry)
	group.DELETE("/library/courses/:id", h.Remove)
	group.POST("/library/rescan", h.Rescan)
}
