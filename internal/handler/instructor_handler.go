package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	"github.com/noah-isme/iea-horarios-api/internal/service"
	"github.com/noah-isme/iea-horarios-api/pkg/response"
)

type instructorService interface {
	List(ctx context.Context, filter models.InstructorFilter, termID *int64) ([]models.InstructorView, *models.Pagination, error)
	Get(ctx context.Context, id int64, termID *int64) (*models.InstructorView, error)
	Create(ctx context.Context, req service.InstructorRequest) (*models.Instructor, error)
	Update(ctx context.Context, id int64, req service.InstructorRequest) (*models.Instructor, error)
	Delete(ctx context.Context, id int64) error
}

// InstructorHandler exposes instructor endpoints.
type InstructorHandler struct {
	service instructorService
}

// NewInstructorHandler constructs the handler.
func NewInstructorHandler(svc instructorService) *InstructorHandler {
	return &InstructorHandler{service: svc}
}

// List godoc
// @Summary List instructors
// @Description Rows include campuses, assignments and the derived modality
// @Tags Instructors
// @Produce json
// @Param search query string false "Name, national ID or email"
// @Param campus_id query int false "Campus ID"
// @Param term_id query int false "Term ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /instructors [get]
func (h *InstructorHandler) List(c *gin.Context) {
	campusID, err := queryID(c, "campus_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	termID, err := optionalQueryID(c, "term_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	page, size := pageParams(c)
	filter := models.InstructorFilter{Search: c.Query("search"), CampusID: campusID, Page: page, PageSize: size}

	instructors, pagination, err := h.service.List(c.Request.Context(), filter, termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors, pagination)
}

// Get godoc
// @Summary Get instructor
// @Tags Instructors
// @Produce json
// @Param id path int true "Instructor ID"
// @Param term_id query int false "Term ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /instructors/{id} [get]
func (h *InstructorHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	termID, err := optionalQueryID(c, "term_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	instructor, err := h.service.Get(c.Request.Context(), id, termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructor, nil)
}

// Create godoc
// @Summary Create instructor
// @Tags Instructors
// @Accept json
// @Produce json
// @Param payload body service.InstructorRequest true "Instructor payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /instructors [post]
func (h *InstructorHandler) Create(c *gin.Context) {
	var req service.InstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "instructor"))
		return
	}
	instructor, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, instructor)
}

// Update godoc
// @Summary Update instructor
// @Description Omitting campus_ids keeps the current campuses
// @Tags Instructors
// @Accept json
// @Produce json
// @Param id path int true "Instructor ID"
// @Param payload body service.InstructorRequest true "Instructor payload"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id} [put]
func (h *InstructorHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.InstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "instructor"))
		return
	}
	instructor, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructor, nil)
}

// Delete godoc
// @Summary Delete instructor
// @Tags Instructors
// @Param id path int true "Instructor ID"
// @Success 204 {string} string ""
// @Router /instructors/{id} [delete]
func (h *InstructorHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
