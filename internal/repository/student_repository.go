package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/iea-horarios-api/internal/models"
)

const studentColumns = "id, national_id, first_name, last_name, email, created_at, updated_at"

// StudentRepository handles persistence for students.
type StudentRepository struct {
	store
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{store{db: db}}
}

// List returns students matching the filter along with total count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students WHERE 1=1"
	var args []interface{}
	if filter.Search != "" {
		base += fmt.Sprintf(" AND (LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR national_id LIKE $%d)", len(args)+1, len(args)+1, len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	limit, offset := pageBounds(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT %s %s ORDER BY last_name ASC, first_name ASC LIMIT %d OFFSET %d", studentColumns, base, limit, offset)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE id = $1"
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByNationalID fetches a student by normalized national ID.
func (r *StudentRepository) FindByNationalID(ctx context.Context, nationalID string) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE national_id = $1"
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, nationalID); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a student.
func (r *StudentRepository) Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error {
	const query = `INSERT INTO students (national_id, first_name, last_name, email) VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`
	if err := r.exec(exec).QueryRowxContext(ctx, query, student.NationalID, student.FirstName, student.LastName, student.Email).
		Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt); err != nil {
		return writeError("create student", err)
	}
	return nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET national_id = :national_id, first_name = :first_name, last_name = :last_name, email = :email, updated_at = :updated_at WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, student); err != nil {
		return writeError("update student", err)
	}
	return nil
}
