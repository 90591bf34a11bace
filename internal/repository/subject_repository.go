package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/iea-horarios-api/internal/models"
)

const subjectColumns = "id, code, name, meeting_link, created_at, updated_at"

// SubjectRepository handles persistence for subjects.
type SubjectRepository struct {
	store
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{store{db: db}}
}

// List returns subjects matching filters along with total count. Codes sort naturally (c.2 before c.10).
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	base := "FROM subjects WHERE 1=1"
	var args []interface{}
	if filter.Search != "" {
		base += fmt.Sprintf(" AND (LOWER(code) LIKE $%d OR LOWER(name) LIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	limit, offset := pageBounds(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT %s %s ORDER BY LENGTH(code) ASC, code ASC LIMIT %d OFFSET %d", subjectColumns, base, limit, offset)
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}
	return subjects, total, nil
}

// FindByID fetches a subject by ID.
func (r *SubjectRepository) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	query := "SELECT " + subjectColumns + " FROM subjects WHERE id = $1"
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// FindByCode fetches a subject by its c.<N> code.
func (r *SubjectRepository) FindByCode(ctx context.Context, code string) (*models.Subject, error) {
	query := "SELECT " + subjectColumns + " FROM subjects WHERE code = LOWER($1)"
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, strings.TrimSpace(code)); err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create inserts a subject.
func (r *SubjectRepository) Create(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error {
	subject.Code = strings.ToLower(strings.TrimSpace(subject.Code))
	const query = `INSERT INTO subjects (code, name, meeting_link) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	if err := r.exec(exec).QueryRowxContext(ctx, query, subject.Code, subject.Name, subject.MeetingLink).
		Scan(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt); err != nil {
		return writeError("create subject", err)
	}
	return nil
}

// Update modifies code, name and meeting link.
func (r *SubjectRepository) Update(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error {
	subject.Code = strings.ToLower(strings.TrimSpace(subject.Code))
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET code = :code, name = :name, meeting_link = :meeting_link, updated_at = :updated_at WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, subject); err != nil {
		return writeError("update subject", err)
	}
	return nil
}

// Delete removes a subject; assignments, links and enrollments cascade.
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}

// EnrolledCount returns how many students are enrolled in a subject for a term.
func (r *SubjectRepository) EnrolledCount(ctx context.Context, subjectID, termID int64) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM enrollments WHERE subject_id = $1 AND term_id = $2`, subjectID, termID); err != nil {
		return 0, fmt.Errorf("count subject enrollments: %w", err)
	}
	return total, nil
}

// Stats aggregates subject and assignment counters, optionally scoped to a term.
func (r *SubjectRepository) Stats(ctx context.Context, termID *int64) (*models.SubjectStats, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM subjects) AS total,
	COUNT(a.id) AS assignments,
	COUNT(a.id) FILTER (WHERE a.modality = 'asynchronous') AS asynchronous,
	COUNT(a.id) FILTER (WHERE a.modality <> 'asynchronous' AND a.instructor_id IS NOT NULL) AS staffed,
	COUNT(a.id) FILTER (WHERE a.modality <> 'asynchronous' AND a.instructor_id IS NULL) AS unstaffed,
	(SELECT COUNT(*) FROM enrollments e WHERE $1::BIGINT IS NULL OR e.term_id = $1) AS enrolled
FROM assignments a WHERE $1::BIGINT IS NULL OR a.term_id = $1`
	var stats models.SubjectStats
	if err := r.db.GetContext(ctx, &stats, query, termID); err != nil {
		return nil, fmt.Errorf("subject stats: %w", err)
	}
	return &stats, nil
}
