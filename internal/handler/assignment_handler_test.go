package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
)

type assignmentServiceMock struct {
	filter    models.AssignmentFilter
	termID    *int64
	createErr error
	updatedID int64
	report    *models.OverlapReport
}

func (m *assignmentServiceMock) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error) {
	m.filter = filter
	return []models.AssignmentDetail{}, nil
}

func (m *assignmentServiceMock) Schedule(ctx context.Context, termID int64) ([]models.AssignmentDetail, error) {
	m.termID = &termID
	return []models.AssignmentDetail{{SubjectCode: "c.1"}}, nil
}

func (m *assignmentServiceMock) Create(ctx context.Context, input models.AssignmentInput) (*models.Assignment, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.Assignment{ID: 10, SubjectID: input.SubjectID, TermID: input.TermID, Modality: input.Modality}, nil
}

func (m *assignmentServiceMock) Update(ctx context.Context, id int64, input models.AssignmentInput) (*models.Assignment, error) {
	m.updatedID = id
	return &models.Assignment{ID: id}, nil
}

func (m *assignmentServiceMock) Delete(ctx context.Context, id int64) error {
	if id == 404 {
		return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	return nil
}

func (m *assignmentServiceMock) FindAllOverlaps(ctx context.Context, termID *int64) (*models.OverlapReport, error) {
	m.termID = termID
	return m.report, nil
}

func TestAssignmentHandlerListParsesFilters(t *testing.T) {
	svc := &assignmentServiceMock{}
	c, w := newContext(http.MethodGet, "/assignments?term_id=3&subject_id=9&scheduled=true", nil)

	NewAssignmentHandler(svc).List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.AssignmentFilter{TermID: 3, SubjectID: 9, ScheduledOnly: true}, svc.filter)
}

func TestAssignmentHandlerListRejectsBadID(t *testing.T) {
	c, w := newContext(http.MethodGet, "/assignments?instructor_id=abc", nil)

	NewAssignmentHandler(&assignmentServiceMock{}).List(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decode(t, w).Error.Code)
}

func TestAssignmentHandlerCreateConflictCarriesDescriptor(t *testing.T) {
	conflict := &models.Conflict{
		Kind:          models.ConflictSubject,
		Severity:      models.SeverityCritical,
		Message:       "subject c.1 already has a session on Lunes at 08:00",
		AssignmentIDs: []int64{4},
	}
	appErr := appErrors.Clone(appErrors.ErrSchedulingConflict, conflict.Message)
	appErr.Details = conflict
	svc := &assignmentServiceMock{createErr: appErr}

	c, w := newContext(http.MethodPost, "/assignments", jsonBody(t, models.AssignmentInput{
		SubjectID: 1, TermID: 1, Modality: models.ModalityInPerson,
	}))
	NewAssignmentHandler(svc).Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SCHEDULING_CONFLICT", env.Error.Code)

	var details models.Conflict
	require.NoError(t, json.Unmarshal(env.Error.Details, &details))
	assert.Equal(t, []int64{4}, details.AssignmentIDs)
	assert.Equal(t, models.SeverityCritical, details.Severity)
}

func TestAssignmentHandlerCreate(t *testing.T) {
	c, w := newContext(http.MethodPost, "/assignments", jsonBody(t, models.AssignmentInput{
		SubjectID: 1, TermID: 2, Modality: models.ModalityAsynchronous,
	}))
	NewAssignmentHandler(&assignmentServiceMock{}).Create(c)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAssignmentHandlerUpdateInvalidID(t *testing.T) {
	c, w := newContext(http.MethodPut, "/assignments/x", jsonBody(t, models.AssignmentInput{}))
	c.Params = gin.Params{{Key: "id", Value: "x"}}
	svc := &assignmentServiceMock{}

	NewAssignmentHandler(svc).Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.updatedID)
}

func TestAssignmentHandlerDeleteNotFound(t *testing.T) {
	c, w := newContext(http.MethodDelete, "/assignments/404", nil)
	c.Params = gin.Params{{Key: "id", Value: "404"}}

	NewAssignmentHandler(&assignmentServiceMock{}).Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignmentHandlerOverlapsAddsSeverityMeta(t *testing.T) {
	svc := &assignmentServiceMock{report: &models.OverlapReport{Scanned: 5, Critical: 1, High: 2, Conflicts: []models.Conflict{}}}
	c, w := newContext(http.MethodGet, "/assignments/overlaps?term_id=7", nil)

	NewAssignmentHandler(svc).Overlaps(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.termID)
	assert.Equal(t, int64(7), *svc.termID)
	env := decode(t, w)
	assert.EqualValues(t, 1, env.Meta["critical"])
	assert.EqualValues(t, 2, env.Meta["high"])
}

func TestAssignmentHandlerOverlapsAllTerms(t *testing.T) {
	svc := &assignmentServiceMock{report: &models.OverlapReport{Conflicts: []models.Conflict{}}}
	c, w := newContext(http.MethodGet, "/assignments/overlaps", nil)

	NewAssignmentHandler(svc).Overlaps(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.termID)
}

func TestAssignmentHandlerScheduleRequiresTerm(t *testing.T) {
	c, w := newContext(http.MethodGet, "/schedule", nil)
	NewAssignmentHandler(&assignmentServiceMock{}).Schedule(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
