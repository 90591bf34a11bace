package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/iea-horarios-api/internal/models"
)

// EnrollmentRepository handles persistence for enrollments.
type EnrollmentRepository struct {
	store
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{store{db: db}}
}

// List returns enrollment details filtered by the provided filter.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	base := `FROM enrollments e
JOIN students st ON st.id = e.student_id
JOIN subjects sub ON sub.id = e.subject_id
LEFT JOIN courses c ON c.id = e.course_id
WHERE 1=1`
	var conditions []string
	var args []interface{}
	if filter.StudentID > 0 {
		conditions = append(conditions, fmt.Sprintf("e.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.SubjectID > 0 {
		conditions = append(conditions, fmt.Sprintf("e.subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.TermID > 0 {
		conditions = append(conditions, fmt.Sprintf("e.term_id = $%d", len(args)+1))
		args = append(args, filter.TermID)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	limit, offset := pageBounds(filter.Page, filter.PageSize)
	query := fmt.Sprintf(`SELECT e.id, e.student_id, e.subject_id, e.term_id, e.course_id, e.created_at,
TRIM(st.last_name || ', ' || st.first_name) AS student_name, st.national_id AS student_national_id,
sub.code AS subject_code, c.name AS course_name %s ORDER BY e.created_at DESC, e.id DESC LIMIT %d OFFSET %d`, base, limit, offset)
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// Exists reports whether a student is already enrolled in the subject for the term.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, subjectID, termID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = $1 AND subject_id = $2 AND term_id = $3)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, studentID, subjectID, termID); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}

// Create inserts an enrollment.
func (r *EnrollmentRepository) Create(ctx context.Context, exec sqlx.ExtContext, enrollment *models.Enrollment) error {
	const query = `INSERT INTO enrollments (student_id, subject_id, term_id, course_id) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	if err := r.exec(exec).QueryRowxContext(ctx, query, enrollment.StudentID, enrollment.SubjectID, enrollment.TermID, enrollment.CourseID).
		Scan(&enrollment.ID, &enrollment.CreatedAt); err != nil {
		return writeError("create enrollment", err)
	}
	return nil
}
