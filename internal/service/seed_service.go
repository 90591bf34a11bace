package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
)

// DefaultCampuses are created when missing. Colors are presentation tags for the frontend.
var DefaultCampuses = []models.Campus{
	{Name: "Online - Interior", Color: "bg-purple-500"},
	{Name: "Avellaneda", Color: "bg-blue-500"},
	{Name: "Caballito", Color: "bg-emerald-500"},
	{Name: "Vicente López", Color: "bg-amber-500"},
	{Name: "Liniers", Color: "bg-pink-500"},
	{Name: "Monte Grande", Color: "bg-cyan-500"},
	{Name: "La Plata", Color: "bg-indigo-500"},
	{Name: "Pilar", Color: "bg-rose-500"},
}

// DefaultTerms are created only on an empty terms table; the first one is activated.
var DefaultTerms = []models.Term{
	{Name: "1er Cuatrimestre 2026", Year: 2026, Number: 1, Active: true},
	{Name: "2do Cuatrimestre 2026", Year: 2026, Number: 2},
}

type seedCampusStore interface {
	CreateIfMissing(ctx context.Context, exec sqlx.ExtContext, name, color string) (bool, error)
}

type seedTermStore interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, exec sqlx.ExtContext, term *models.Term) error
	Activate(ctx context.Context, exec sqlx.ExtContext, id int64) error
}

// SeedResult reports what a seed run created.
type SeedResult struct {
	CampusesCreated int `json:"campuses_created"`
	TermsCreated    int `json:"terms_created"`
}

// SeedService loads reference data idempotently.
type SeedService struct {
	campuses seedCampusStore
	terms    seedTermStore
	tx       txProvider
	logger   *zap.Logger
}

// NewSeedService creates a seed service.
func NewSeedService(campuses seedCampusStore, terms seedTermStore, tx txProvider, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{campuses: campuses, terms: terms, tx: tx, logger: logger}
}

// Seed creates missing default campuses and, on an empty database, the default terms.
func (s *SeedService) Seed(ctx context.Context) (result *SeedResult, err error) {
	termCount, err := s.terms.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count terms")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result = &SeedResult{}
	for _, campus := range DefaultCampuses {
		var created bool
		created, err = s.campuses.CreateIfMissing(ctx, tx, campus.Name, campus.Color)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed campuses")
		}
		if created {
			result.CampusesCreated++
		}
	}

	if termCount == 0 {
		for _, def := range DefaultTerms {
			term := def
			if err = s.terms.Create(ctx, tx, &term); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed terms")
			}
			if def.Active {
				if err = s.terms.Activate(ctx, tx, term.ID); err != nil {
					return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate seeded term")
				}
			}
			result.TermsCreated++
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit seed")
	}
	s.logger.Info("seed finished", zap.Int("campuses_created", result.CampusesCreated), zap.Int("terms_created", result.TermsCreated))
	return result, nil
}
