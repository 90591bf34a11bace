package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/iea-horarios-api/internal/models"
)

const termColumns = "id, name, year, number, active, created_at, updated_at"

// TermRepository provides access to academic terms.
type TermRepository struct {
	store
}

// NewTermRepository constructs a TermRepository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{store{db: db}}
}

// List returns terms matching the filter ordered chronologically.
func (r *TermRepository) List(ctx context.Context, filter models.TermFilter) ([]models.Term, error) {
	base := "FROM terms WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Year > 0 {
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)+1))
		args = append(args, filter.Year)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY year ASC, number ASC", termColumns, base)
	var terms []models.Term
	if err := r.db.SelectContext(ctx, &terms, query, args...); err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	return terms, nil
}

// FindByID fetches a term by ID.
func (r *TermRepository) FindByID(ctx context.Context, id int64) (*models.Term, error) {
	query := "SELECT " + termColumns + " FROM terms WHERE id = $1"
	var term models.Term
	if err := r.db.GetContext(ctx, &term, query, id); err != nil {
		return nil, err
	}
	return &term, nil
}

// FindActive returns the active term with the lowest ID.
func (r *TermRepository) FindActive(ctx context.Context) (*models.Term, error) {
	query := "SELECT " + termColumns + " FROM terms WHERE active = TRUE ORDER BY id ASC LIMIT 1"
	var term models.Term
	if err := r.db.GetContext(ctx, &term, query); err != nil {
		return nil, err
	}
	return &term, nil
}

// Count returns the number of stored terms.
func (r *TermRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM terms"); err != nil {
		return 0, fmt.Errorf("count terms: %w", err)
	}
	return total, nil
}

// Create inserts a term.
func (r *TermRepository) Create(ctx context.Context, exec sqlx.ExtContext, term *models.Term) error {
	const query = `INSERT INTO terms (name, year, number, active) VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`
	if err := r.exec(exec).QueryRowxContext(ctx, query, term.Name, term.Year, term.Number, term.Active).
		Scan(&term.ID, &term.CreatedAt, &term.UpdatedAt); err != nil {
		return writeError("create term", err)
	}
	return nil
}

// Activate marks id as the only active term in a single statement.
func (r *TermRepository) Activate(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	const query = `UPDATE terms SET active = (id = $1), updated_at = $2 WHERE active OR id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("activate term: %w", err)
	}
	return nil
}
