package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	"github.com/noah-isme/iea-horarios-api/internal/service"
	"github.com/noah-isme/iea-horarios-api/pkg/response"
)

type enrollmentService interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error)
	Create(ctx context.Context, req service.CreateEnrollmentRequest) (*models.Enrollment, error)
}

// EnrollmentHandler handles enrollment endpoints.
type EnrollmentHandler struct {
	service enrollmentService
}

// NewEnrollmentHandler builds EnrollmentHandler.
func NewEnrollmentHandler(svc enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Param student_id query int false "Student ID"
// @Param subject_id query int false "Subject ID"
// @Param term_id query int false "Term ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	var filter models.EnrollmentFilter
	var err error
	if filter.StudentID, err = queryID(c, "student_id"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.SubjectID, err = queryID(c, "subject_id"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.TermID, err = queryID(c, "term_id"); err != nil {
		response.Error(c, err)
		return
	}
	filter.Page, filter.PageSize = pageParams(c)

	enrollments, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, pagination)
}

// Create godoc
// @Summary Enroll a student
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.CreateEnrollmentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req service.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "enrollment"))
		return
	}
	enrollment, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}
