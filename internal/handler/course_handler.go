package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	"github.com/noah-isme/iea-horarios-api/internal/service"
	"github.com/noah-isme/iea-horarios-api/pkg/response"
)

type courseService interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, error)
	Create(ctx context.Context, req service.CreateCourseRequest) (*models.Course, error)
	ListLinks(ctx context.Context, subjectID, courseID int64) ([]models.SubjectCourseDetail, error)
}

// CourseHandler exposes courses and subject-course links.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(svc courseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param campus_id query int false "Campus ID"
// @Param search query string false "Course name"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	campusID, err := queryID(c, "campus_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	courses, err := h.service.List(c.Request.Context(), models.CourseFilter{CampusID: campusID, Search: c.Query("search")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "course"))
		return
	}
	course, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// ListLinks godoc
// @Summary List subject-course links
// @Tags Courses
// @Produce json
// @Param subject_id query int false "Subject ID"
// @Param course_id query int false "Course ID"
// @Success 200 {object} response.Envelope
// @Router /subject-courses [get]
func (h *CourseHandler) ListLinks(c *gin.Context) {
	subjectID, err := queryID(c, "subject_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	courseID, err := queryID(c, "course_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	links, err := h.service.ListLinks(c.Request.Context(), subjectID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, links, nil)
}
