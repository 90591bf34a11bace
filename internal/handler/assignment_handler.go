package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
	"github.com/noah-isme/iea-horarios-api/pkg/response"
)

type assignmentService interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error)
	Schedule(ctx context.Context, termID int64) ([]models.AssignmentDetail, error)
	Create(ctx context.Context, input models.AssignmentInput) (*models.Assignment, error)
	Update(ctx context.Context, id int64, input models.AssignmentInput) (*models.Assignment, error)
	Delete(ctx context.Context, id int64) error
	FindAllOverlaps(ctx context.Context, termID *int64) (*models.OverlapReport, error)
}

// AssignmentHandler serves scheduled sessions, the overlap report and the schedule view.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(svc assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// List godoc
// @Summary List assignments
// @Tags Assignments
// @Produce json
// @Param term_id query int false "Term ID"
// @Param subject_id query int false "Subject ID"
// @Param instructor_id query int false "Instructor ID"
// @Param scheduled query bool false "Only sessions with a day and start time"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	var filter models.AssignmentFilter
	var err error
	if filter.TermID, err = queryID(c, "term_id"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.SubjectID, err = queryID(c, "subject_id"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.InstructorID, err = queryID(c, "instructor_id"); err != nil {
		response.Error(c, err)
		return
	}
	filter.ScheduledOnly, _ = strconv.ParseBool(c.Query("scheduled"))

	assignments, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// Create godoc
// @Summary Create assignment
// @Description Rejected with SCHEDULING_CONFLICT when the subject already has a session in the slot
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body models.AssignmentInput true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var input models.AssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err, "assignment"))
		return
	}
	assignment, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Update godoc
// @Summary Update assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param payload body models.AssignmentInput true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var input models.AssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err, "assignment"))
		return
	}
	assignment, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Delete godoc
// @Summary Delete assignment
// @Tags Assignments
// @Param id path int true "Assignment ID"
// @Success 204 {string} string ""
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
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

// Overlaps godoc
// @Summary Scan for overlapping assignments
// @Description Subject overlaps are CRITICAL, instructor overlaps HIGH
// @Tags Assignments
// @Produce json
// @Param term_id query int false "Term ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/overlaps [get]
func (h *AssignmentHandler) Overlaps(c *gin.Context) {
	termID, err := optionalQueryID(c, "term_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.service.FindAllOverlaps(c.Request.Context(), termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil, map[string]interface{}{
		"critical": report.Critical,
		"high":     report.High,
	})
}

// Schedule godoc
// @Summary Term schedule
// @Tags Assignments
// @Produce json
// @Param term_id query int true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *AssignmentHandler) Schedule(c *gin.Context) {
	termID, err := queryID(c, "term_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if termID == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "term_id is required"))
		return
	}
	items, err := h.service.Schedule(c.Request.Context(), termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
