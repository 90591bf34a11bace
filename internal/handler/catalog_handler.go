package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	"github.com/noah-isme/iea-horarios-api/internal/service"
	"github.com/noah-isme/iea-horarios-api/pkg/response"
)

type catalogService interface {
	ListCampuses(ctx context.Context) ([]models.Campus, error)
	CreateCampus(ctx context.Context, req service.CreateCampusRequest) (*models.Campus, error)
	ListTerms(ctx context.Context, filter models.TermFilter) ([]models.Term, error)
	ActiveTerm(ctx context.Context) (*models.Term, error)
	CreateTerm(ctx context.Context, req service.CreateTermRequest) (*models.Term, error)
	ActivateTerm(ctx context.Context, id int64) (*models.Term, error)
}

// CatalogHandler exposes campus and term endpoints.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler builds a new handler.
func NewCatalogHandler(svc catalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// ListCampuses godoc
// @Summary List campuses
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /campuses [get]
func (h *CatalogHandler) ListCampuses(c *gin.Context) {
	campuses, err := h.service.ListCampuses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, campuses, nil)
}

// CreateCampus godoc
// @Summary Create campus
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CreateCampusRequest true "Campus payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /campuses [post]
func (h *CatalogHandler) CreateCampus(c *gin.Context) {
	var req service.CreateCampusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "campus"))
		return
	}
	campus, err := h.service.CreateCampus(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, campus)
}

// ListTerms godoc
// @Summary List terms
// @Tags Catalog
// @Produce json
// @Param year query int false "Filter by year"
// @Param active query bool false "Filter by active flag"
// @Success 200 {object} response.Envelope
// @Router /terms [get]
func (h *CatalogHandler) ListTerms(c *gin.Context) {
	var filter models.TermFilter
	if year, err := strconv.Atoi(c.Query("year")); err == nil {
		filter.Year = year
	}
	if active, err := strconv.ParseBool(c.Query("active")); err == nil {
		filter.Active = &active
	}
	terms, err := h.service.ListTerms(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, terms, nil)
}

// ActiveTerm godoc
// @Summary Get the active term
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /terms/active [get]
func (h *CatalogHandler) ActiveTerm(c *gin.Context) {
	term, err := h.service.ActiveTerm(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, term, nil)
}

// CreateTerm godoc
// @Summary Create term
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CreateTermRequest true "Term payload"
// @Success 201 {object} response.Envelope
// @Router /terms [post]
func (h *CatalogHandler) CreateTerm(c *gin.Context) {
	var req service.CreateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "term"))
		return
	}
	term, err := h.service.CreateTerm(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, term)
}

// ActivateTerm godoc
// @Summary Activate term
// @Description Makes the term the only active one
// @Tags Catalog
// @Produce json
// @Param id path int true "Term ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /terms/{id}/activate [put]
func (h *CatalogHandler) ActivateTerm(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	term, err := h.service.ActivateTerm(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, term, nil)
}
