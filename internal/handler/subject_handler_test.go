package handler

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	"github.com/noah-isme/iea-horarios-api/internal/service"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
)

type subjectServiceMock struct {
	filter    models.SubjectFilter
	termID    *int64
	createErr error
	deleted   int64
}

func (m *subjectServiceMock) List(ctx context.Context, filter models.SubjectFilter, termID *int64) ([]models.SubjectView, *models.Pagination, error) {
	m.filter = filter
	m.termID = termID
	return []models.SubjectView{{Subject: models.Subject{ID: 1, Code: "c.1"}, Enrolled: 3}}, &models.Pagination{Page: 1, PageSize: 50, TotalCount: 1}, nil
}

func (m *subjectServiceMock) Get(ctx context.Context, id int64, termID *int64) (*models.SubjectView, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
}

func (m *subjectServiceMock) Create(ctx context.Context, req service.CreateSubjectRequest) (*models.Subject, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.Subject{ID: 2, Code: req.Code}, nil
}

func (m *subjectServiceMock) Update(ctx context.Context, id int64, req service.UpdateSubjectRequest) (*models.Subject, error) {
	return &models.Subject{ID: id, Code: req.Code}, nil
}

func (m *subjectServiceMock) Delete(ctx context.Context, id int64) error {
	m.deleted = id
	return nil
}

func (m *subjectServiceMock) Stats(ctx context.Context, termID *int64) (*models.SubjectStats, error) {
	m.termID = termID
	return &models.SubjectStats{Total: 4}, nil
}

func TestSubjectHandlerListForwardsTermAndPaging(t *testing.T) {
	svc := &subjectServiceMock{}
	c, w := newContext(http.MethodGet, "/subjects?term_id=7&search=mate&page=2&limit=10", nil)

	NewSubjectHandler(svc).List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.termID)
	assert.Equal(t, int64(7), *svc.termID)
	assert.Equal(t, models.SubjectFilter{Search: "mate", Page: 2, PageSize: 10}, svc.filter)
	assert.Equal(t, 1, decode(t, w).Pagination["total_count"])
}

func TestSubjectHandlerGetNotFound(t *testing.T) {
	c, w := newContext(http.MethodGet, "/subjects/5", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	NewSubjectHandler(&subjectServiceMock{}).Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubjectHandlerCreateDuplicate(t *testing.T) {
	svc := &subjectServiceMock{createErr: appErrors.Clone(appErrors.ErrDuplicateKey, "subject code already exists")}
	c, w := newContext(http.MethodPost, "/subjects", jsonBody(t, service.CreateSubjectRequest{Code: "c.1"}))

	NewSubjectHandler(svc).Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_KEY", decode(t, w).Error.Code)
}

func TestSubjectHandlerCreateInvalidBody(t *testing.T) {
	c, w := newContext(http.MethodPost, "/subjects", bytes.NewReader([]byte(`{invalid`)))
	NewSubjectHandler(&subjectServiceMock{}).Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubjectHandlerDelete(t *testing.T) {
	svc := &subjectServiceMock{}
	c, _ := newContext(http.MethodDelete, "/subjects/9", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}

	NewSubjectHandler(svc).Delete(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, int64(9), svc.deleted)
}

func TestSubjectHandlerStatsWithoutTerm(t *testing.T) {
	svc := &subjectServiceMock{}
	c, w := newContext(http.MethodGet, "/subjects/stats", nil)

	NewSubjectHandler(svc).Stats(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.termID)
}
