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
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
)

type catalogServiceMock struct {
	termFilter models.TermFilter
	activated  int64
	active     *models.Term
}

func (m *catalogServiceMock) ListCampuses(ctx context.Context) ([]models.Campus, error) {
	return []models.Campus{{ID: 1, Name: "Avellaneda", Color: models.DefaultCampusColor}}, nil
}

func (m *catalogServiceMock) CreateCampus(ctx context.Context, req service.CreateCampusRequest) (*models.Campus, error) {
	return &models.Campus{ID: 2, Name: req.Name, Color: req.Color}, nil
}

func (m *catalogServiceMock) ListTerms(ctx context.Context, filter models.TermFilter) ([]models.Term, error) {
	m.termFilter = filter
	return []models.Term{}, nil
}

func (m *catalogServiceMock) ActiveTerm(ctx context.Context) (*models.Term, error) {
	if m.active == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no active term")
	}
	return m.active, nil
}

func (m *catalogServiceMock) CreateTerm(ctx context.Context, req service.CreateTermRequest) (*models.Term, error) {
	return &models.Term{ID: 9, Name: req.Name, Year: req.Year, Number: req.Number, Active: req.Active}, nil
}

func (m *catalogServiceMock) ActivateTerm(ctx context.Context, id int64) (*models.Term, error) {
	m.activated = id
	return &models.Term{ID: id, Active: true}, nil
}

func TestCatalogHandlerListTermsFilters(t *testing.T) {
	svc := &catalogServiceMock{}
	c, w := newContext(http.MethodGet, "/terms?year=2026&active=true", nil)

	NewCatalogHandler(svc).ListTerms(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2026, svc.termFilter.Year)
	require.NotNil(t, svc.termFilter.Active)
	assert.True(t, *svc.termFilter.Active)
}

func TestCatalogHandlerActiveTermMissing(t *testing.T) {
	c, w := newContext(http.MethodGet, "/terms/active", nil)
	NewCatalogHandler(&catalogServiceMock{}).ActiveTerm(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogHandlerActivateTerm(t *testing.T) {
	svc := &catalogServiceMock{}
	c, w := newContext(http.MethodPut, "/terms/8/activate", nil)
	c.Params = gin.Params{{Key: "id", Value: "8"}}

	NewCatalogHandler(svc).ActivateTerm(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(8), svc.activated)
}

func TestCatalogHandlerCreateCampus(t *testing.T) {
	c, w := newContext(http.MethodPost, "/campuses", jsonBody(t, service.CreateCampusRequest{Name: "Quilmes"}))
	NewCatalogHandler(&catalogServiceMock{}).CreateCampus(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Quilmes"`)
}
