package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	"github.com/noah-isme/iea-horarios-api/internal/repository"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
)

type campusRepository interface {
	List(ctx context.Context) ([]models.Campus, error)
	FindByID(ctx context.Context, id int64) (*models.Campus, error)
	Create(ctx context.Context, exec sqlx.ExtContext, campus *models.Campus) error
}

type termRepository interface {
	List(ctx context.Context, filter models.TermFilter) ([]models.Term, error)
	FindByID(ctx context.Context, id int64) (*models.Term, error)
	FindActive(ctx context.Context) (*models.Term, error)
	Create(ctx context.Context, exec sqlx.ExtContext, term *models.Term) error
	Activate(ctx context.Context, exec sqlx.ExtContext, id int64) error
}

// CreateCampusRequest captures fields for creating campuses.
type CreateCampusRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,max=20"`
}

// CreateTermRequest captures fields for creating terms.
type CreateTermRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Year   int    `json:"year" validate:"required,gte=2000,lte=2100"`
	Number int    `json:"number" validate:"required,oneof=1 2"`
	Active bool   `json:"active"`
}

// CatalogService manages campuses and terms.
type CatalogService struct {
	campuses  campusRepository
	terms     termRepository
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(campuses campusRepository, terms termRepository, tx txProvider, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{campuses: campuses, terms: terms, tx: tx, validator: validate, logger: logger}
}

// ListCampuses returns every campus ordered by name.
func (s *CatalogService) ListCampuses(ctx context.Context) ([]models.Campus, error) {
	campuses, err := s.campuses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list campuses")
	}
	return campuses, nil
}

// CreateCampus adds a campus; names are unique.
func (s *CatalogService) CreateCampus(ctx context.Context, req CreateCampusRequest) (*models.Campus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid campus payload")
	}
	campus := &models.Campus{Name: strings.TrimSpace(req.Name), Color: strings.TrimSpace(req.Color)}
	if campus.Color == "" {
		campus.Color = models.DefaultCampusColor
	}
	if err := s.campuses.Create(ctx, nil, campus); err != nil {
		return nil, storeWriteError(err, "campus already exists", "failed to create campus")
	}
	return campus, nil
}

// ListTerms returns terms matching filter, newest first.
func (s *CatalogService) ListTerms(ctx context.Context, filter models.TermFilter) ([]models.Term, error) {
	terms, err := s.terms.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list terms")
	}
	return terms, nil
}

// ActiveTerm returns the single active term.
func (s *CatalogService) ActiveTerm(ctx context.Context) (*models.Term, error) {
	term, err := s.terms.FindActive(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no active term")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active term")
	}
	return term, nil
}

// CreateTerm adds a term. An active term deactivates every other one in the same transaction.
func (s *CatalogService) CreateTerm(ctx context.Context, req CreateTermRequest) (term *models.Term, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term payload")
	}
	term = &models.Term{Name: strings.TrimSpace(req.Name), Year: req.Year, Number: req.Number}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.terms.Create(ctx, tx, term); err != nil {
		return nil, storeWriteError(err, "term already exists", "failed to create term")
	}
	if req.Active {
		if err = s.terms.Activate(ctx, tx, term.ID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate term")
		}
		term.Active = true
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit term")
	}
	return term, nil
}

// ActivateTerm makes id the only active term.
func (s *CatalogService) ActivateTerm(ctx context.Context, id int64) (*models.Term, error) {
	term, err := s.terms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}
	if err := s.terms.Activate(ctx, nil, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate term")
	}
	term.Active = true
	s.logger.Info("term activated", zap.Int64("term_id", id), zap.String("name", term.Name))
	return term, nil
}

// storeWriteError maps a repository write failure to DuplicateKey or Internal.
func storeWriteError(err error, duplicate, failure string) error {
	if errors.Is(err, repository.ErrDuplicateKey) {
		return appErrors.Wrap(err, appErrors.ErrDuplicateKey.Code, appErrors.ErrDuplicateKey.Status, duplicate)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, failure)
}

func notFoundOr(err error, entity, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", entity))
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to %s %s", action, entity))
}
