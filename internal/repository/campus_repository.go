package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/iea-horarios-api/internal/models"
)

const campusColumns = "id, name, color, created_at, updated_at"

// CampusRepository manages persistence for campuses.
type CampusRepository struct {
	store
}

// NewCampusRepository constructs a CampusRepository.
func NewCampusRepository(db *sqlx.DB) *CampusRepository {
	return &CampusRepository{store{db: db}}
}

// List returns every campus ordered by name.
func (r *CampusRepository) List(ctx context.Context) ([]models.Campus, error) {
	query := "SELECT " + campusColumns + " FROM campuses ORDER BY name ASC"
	var campuses []models.Campus
	if err := r.db.SelectContext(ctx, &campuses, query); err != nil {
		return nil, fmt.Errorf("list campuses: %w", err)
	}
	return campuses, nil
}

// FindByID fetches a campus by ID.
func (r *CampusRepository) FindByID(ctx context.Context, id int64) (*models.Campus, error) {
	query := "SELECT " + campusColumns + " FROM campuses WHERE id = $1"
	var campus models.Campus
	if err := r.db.GetContext(ctx, &campus, query, id); err != nil {
		return nil, err
	}
	return &campus, nil
}

// FindByName fetches a campus by case-insensitive name.
func (r *CampusRepository) FindByName(ctx context.Context, name string) (*models.Campus, error) {
	query := "SELECT " + campusColumns + " FROM campuses WHERE LOWER(name) = LOWER($1)"
	var campus models.Campus
	if err := r.db.GetContext(ctx, &campus, query, strings.TrimSpace(name)); err != nil {
		return nil, err
	}
	return &campus, nil
}

// Create inserts a campus and fills its generated fields.
func (r *CampusRepository) Create(ctx context.Context, exec sqlx.ExtContext, campus *models.Campus) error {
	if campus.Color == "" {
		campus.Color = models.DefaultCampusColor
	}
	const query = `INSERT INTO campuses (name, color) VALUES ($1, $2) RETURNING id, created_at, updated_at`
	if err := r.exec(exec).QueryRowxContext(ctx, query, campus.Name, campus.Color).
		Scan(&campus.ID, &campus.CreatedAt, &campus.UpdatedAt); err != nil {
		return writeError("create campus", err)
	}
	return nil
}

// CreateIfMissing inserts a campus unless one with the same name exists. It reports whether a row was added.
func (r *CampusRepository) CreateIfMissing(ctx context.Context, exec sqlx.ExtContext, name, color string) (bool, error) {
	const query = `INSERT INTO campuses (name, color) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	res, err := r.exec(exec).ExecContext(ctx, query, name, color)
	if err != nil {
		return false, fmt.Errorf("seed campus: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("seed campus rows: %w", err)
	}
	return affected > 0, nil
}
