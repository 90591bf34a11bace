package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	"github.com/noah-isme/iea-horarios-api/internal/service"
	"github.com/noah-isme/iea-horarios-api/pkg/response"
)

type subjectService interface {
	List(ctx context.Context, filter models.SubjectFilter, termID *int64) ([]models.SubjectView, *models.Pagination, error)
	Get(ctx context.Context, id int64, termID *int64) (*models.SubjectView, error)
	Create(ctx context.Context, req service.CreateSubjectRequest) (*models.Subject, error)
	Update(ctx context.Context, id int64, req service.UpdateSubjectRequest) (*models.Subject, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, termID *int64) (*models.SubjectStats, error)
}

// SubjectHandler manages subject endpoints.
type SubjectHandler struct {
	service subjectService
}

// NewSubjectHandler constructs SubjectHandler.
func NewSubjectHandler(svc subjectService) *SubjectHandler {
	return &SubjectHandler{service: svc}
}

// List godoc
// @Summary List subjects
// @Description Each row carries its assignments and enrolled count for the given term
// @Tags Subjects
// @Produce json
// @Param search query string false "Code or name"
// @Param term_id query int false "Term ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	termID, err := optionalQueryID(c, "term_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	page, size := pageParams(c)
	filter := models.SubjectFilter{Search: c.Query("search"), Page: page, PageSize: size}

	subjects, pagination, err := h.service.List(c.Request.Context(), filter, termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, pagination)
}

// Get godoc
// @Summary Get subject
// @Tags Subjects
// @Produce json
// @Param id path int true "Subject ID"
// @Param term_id query int false "Term ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
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
	subject, err := h.service.Get(c.Request.Context(), id, termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Create godoc
// @Summary Create subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body service.CreateSubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req service.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "subject"))
		return
	}
	subject, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// Update godoc
// @Summary Update subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path int true "Subject ID"
// @Param payload body service.UpdateSubjectRequest true "Subject payload"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [put]
func (h *SubjectHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "subject"))
		return
	}
	subject, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Delete godoc
// @Summary Delete subject
// @Tags Subjects
// @Param id path int true "Subject ID"
// @Success 204 {string} string ""
// @Router /subjects/{id} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
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

// Stats godoc
// @Summary Subject statistics
// @Tags Subjects
// @Produce json
// @Param term_id query int false "Term ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/stats [get]
func (h *SubjectHandler) Stats(c *gin.Context) {
	termID, err := optionalQueryID(c, "term_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	stats, err := h.service.Stats(c.Request.Context(), termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
