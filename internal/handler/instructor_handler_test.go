package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	"github.com/noah-isme/iea-horarios-api/internal/service"
)

type instructorServiceMock struct {
	filter  models.InstructorFilter
	termID  *int64
	updated service.InstructorRequest
}

func (m *instructorServiceMock) List(ctx context.Context, filter models.InstructorFilter, termID *int64) ([]models.InstructorView, *models.Pagination, error) {
	m.filter = filter
	m.termID = termID
	return []models.InstructorView{{
		Instructor:      models.Instructor{ID: 1, NationalID: "20111222"},
		Modality:        models.ModalityNoAssignments,
		ProjectionError: "failed to load campuses",
	}}, &models.Pagination{Page: 1, PageSize: 50, TotalCount: 1}, nil
}

func (m *instructorServiceMock) Get(ctx context.Context, id int64, termID *int64) (*models.InstructorView, error) {
	return &models.InstructorView{Instructor: models.Instructor{ID: id}}, nil
}

func (m *instructorServiceMock) Create(ctx context.Context, req service.InstructorRequest) (*models.Instructor, error) {
	return &models.Instructor{ID: 3, NationalID: req.NationalID}, nil
}

func (m *instructorServiceMock) Update(ctx context.Context, id int64, req service.InstructorRequest) (*models.Instructor, error) {
	m.updated = req
	return &models.Instructor{ID: id, NationalID: req.NationalID}, nil
}

func (m *instructorServiceMock) Delete(ctx context.Context, id int64) error {
	return nil
}

func TestInstructorHandlerListExposesProjectionError(t *testing.T) {
	svc := &instructorServiceMock{}
	c, w := newContext(http.MethodGet, "/instructors?campus_id=2&term_id=7&search=gomez", nil)

	NewInstructorHandler(svc).List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), svc.filter.CampusID)
	assert.Equal(t, "gomez", svc.filter.Search)
	require.NotNil(t, svc.termID)
	assert.Contains(t, w.Body.String(), `"projection_error":"failed to load campuses"`)
}

func TestInstructorHandlerUpdateWithoutCampusesKeepsNil(t *testing.T) {
	svc := &instructorServiceMock{}
	c, w := newContext(http.MethodPut, "/instructors/1", jsonBody(t, map[string]string{"national_id": "20111222"}))
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	NewInstructorHandler(svc).Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.updated.CampusIDs)
}

func TestInstructorHandlerUpdateWithEmptyCampuses(t *testing.T) {
	svc := &instructorServiceMock{}
	c, _ := newContext(http.MethodPut, "/instructors/1", jsonBody(t, map[string]interface{}{"national_id": "20111222", "campus_ids": []int64{}}))
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	NewInstructorHandler(svc).Update(c)

	require.NotNil(t, svc.updated.CampusIDs)
	assert.Empty(t, svc.updated.CampusIDs)
}

func TestInstructorHandlerGetInvalidID(t *testing.T) {
	c, w := newContext(http.MethodGet, "/instructors/0", nil)
	c.Params = gin.Params{{Key: "id", Value: "0"}}
	NewInstructorHandler(&instructorServiceMock{}).Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
