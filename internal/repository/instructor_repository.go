package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/iea-horarios-api/internal/models"
)

const instructorColumns = "id, national_id, first_name, last_name, email, created_at, updated_at"

// InstructorRepository manages persistence for instructors and their campus links.
type InstructorRepository struct {
	store
}

// NewInstructorRepository constructs an InstructorRepository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{store{db: db}}
}

// List returns instructors matching filters along with total count.
func (r *InstructorRepository) List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, int, error) {
	base := "FROM instructors i WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(i.first_name) LIKE $%d OR LOWER(i.last_name) LIKE $%d OR i.national_id LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if filter.CampusID > 0 {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM instructor_campuses ic WHERE ic.instructor_id = i.id AND ic.campus_id = $%d)", len(args)+1))
		args = append(args, filter.CampusID)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	limit, offset := pageBounds(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT i.id, i.national_id, i.first_name, i.last_name, i.email, i.created_at, i.updated_at %s ORDER BY i.last_name ASC, i.first_name ASC LIMIT %d OFFSET %d", base, limit, offset)
	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list instructors: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count instructors: %w", err)
	}
	return instructors, total, nil
}

// FindByID fetches an instructor by ID.
func (r *InstructorRepository) FindByID(ctx context.Context, id int64) (*models.Instructor, error) {
	query := "SELECT " + instructorColumns + " FROM instructors WHERE id = $1"
	var instructor models.Instructor
	if err := r.db.GetContext(ctx, &instructor, query, id); err != nil {
		return nil, err
	}
	return &instructor, nil
}

// FindByNationalID fetches an instructor by normalized national ID.
func (r *InstructorRepository) FindByNationalID(ctx context.Context, nationalID string) (*models.Instructor, error) {
	query := "SELECT " + instructorColumns + " FROM instructors WHERE national_id = $1"
	var instructor models.Instructor
	if err := r.db.GetContext(ctx, &instructor, query, nationalID); err != nil {
		return nil, err
	}
	return &instructor, nil
}

// Create inserts an instructor.
func (r *InstructorRepository) Create(ctx context.Context, exec sqlx.ExtContext, instructor *models.Instructor) error {
	const query = `INSERT INTO instructors (national_id, first_name, last_name, email) VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`
	if err := r.exec(exec).QueryRowxContext(ctx, query, instructor.NationalID, instructor.FirstName, instructor.LastName, instructor.Email).
		Scan(&instructor.ID, &instructor.CreatedAt, &instructor.UpdatedAt); err != nil {
		return writeError("create instructor", err)
	}
	return nil
}

// Update modifies an existing instructor.
func (r *InstructorRepository) Update(ctx context.Context, exec sqlx.ExtContext, instructor *models.Instructor) error {
	instructor.UpdatedAt = time.Now().UTC()
	const query = `UPDATE instructors SET national_id = :national_id, first_name = :first_name, last_name = :last_name, email = :email, updated_at = :updated_at WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, instructor); err != nil {
		return writeError("update instructor", err)
	}
	return nil
}

// Delete clears the instructor from its assignments and removes it, in one transaction.
func (r *InstructorRepository) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete instructor: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE assignments SET instructor_id = NULL, updated_at = $2 WHERE instructor_id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("detach instructor assignments: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM instructors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete instructor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete instructor rows: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete instructor: %w", err)
	}
	return nil
}

// Campuses lists the campuses an instructor works from.
func (r *InstructorRepository) Campuses(ctx context.Context, instructorID int64) ([]models.Campus, error) {
	const query = `SELECT c.id, c.name, c.color, c.created_at, c.updated_at FROM campuses c
JOIN instructor_campuses ic ON ic.campus_id = c.id WHERE ic.instructor_id = $1 ORDER BY c.name ASC`
	var campuses []models.Campus
	if err := r.db.SelectContext(ctx, &campuses, query, instructorID); err != nil {
		return nil, fmt.Errorf("list instructor campuses: %w", err)
	}
	return campuses, nil
}

// AddCampus links an instructor to a campus; existing links are kept.
func (r *InstructorRepository) AddCampus(ctx context.Context, exec sqlx.ExtContext, instructorID, campusID int64) error {
	const query = `INSERT INTO instructor_campuses (instructor_id, campus_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.exec(exec).ExecContext(ctx, query, instructorID, campusID); err != nil {
		return fmt.Errorf("link instructor campus: %w", err)
	}
	return nil
}

// ReplaceCampuses sets the exact campus list of an instructor.
func (r *InstructorRepository) ReplaceCampuses(ctx context.Context, exec sqlx.ExtContext, instructorID int64, campusIDs []int64) error {
	target := r.exec(exec)
	if _, err := target.ExecContext(ctx, `DELETE FROM instructor_campuses WHERE instructor_id = $1`, instructorID); err != nil {
		return fmt.Errorf("clear instructor campuses: %w", err)
	}
	for _, campusID := range campusIDs {
		if err := r.AddCampus(ctx, target, instructorID, campusID); err != nil {
			return err
		}
	}
	return nil
}

// StudentCount returns distinct students enrolled in the instructor's subjects for a term.
func (r *InstructorRepository) StudentCount(ctx context.Context, instructorID, termID int64) (int, error) {
	const query = `SELECT COUNT(DISTINCT e.student_id) FROM enrollments e
WHERE e.term_id = $2 AND e.subject_id IN (SELECT a.subject_id FROM assignments a WHERE a.instructor_id = $1 AND a.term_id = $2)`
	var total int
	if err := r.db.GetContext(ctx, &total, query, instructorID, termID); err != nil {
		return 0, fmt.Errorf("count instructor students: %w", err)
	}
	return total, nil
}
