package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/iea-horarios-api/internal/models"
)

// CourseRepository provides access to courses and their subject links.
type CourseRepository struct {
	store
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{store{db: db}}
}

// List returns courses with their campus name.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, error) {
	base := "FROM courses c LEFT JOIN campuses s ON s.id = c.campus_id WHERE 1=1"
	var conditions []string
	var args []interface{}
	if filter.CampusID > 0 {
		conditions = append(conditions, fmt.Sprintf("c.campus_id = $%d", len(args)+1))
		args = append(args, filter.CampusID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(c.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := "SELECT c.id, c.name, c.campus_id, c.created_at, c.updated_at, s.name AS campus_name " + base + " ORDER BY c.name ASC"
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a course by ID.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	const query = `SELECT id, name, campus_id, created_at, updated_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Names returns every course reduced to id, name and campus, for in-memory name resolution.
func (r *CourseRepository) Names(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT id, name, campus_id, created_at, updated_at FROM courses ORDER BY id ASC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list course names: %w", err)
	}
	return courses, nil
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error {
	const query = `INSERT INTO courses (name, campus_id) VALUES ($1, $2) RETURNING id, created_at, updated_at`
	if err := r.exec(exec).QueryRowxContext(ctx, query, course.Name, course.CampusID).
		Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt); err != nil {
		return writeError("create course", err)
	}
	return nil
}

// ListLinks returns subject-course links, optionally scoped to a subject or a course.
func (r *CourseRepository) ListLinks(ctx context.Context, subjectID, courseID int64) ([]models.SubjectCourseDetail, error) {
	base := `FROM subject_courses sc
JOIN subjects sub ON sub.id = sc.subject_id
JOIN courses c ON c.id = sc.course_id
LEFT JOIN campuses cp ON cp.id = COALESCE(sc.campus_id, c.campus_id)
WHERE 1=1`
	var args []interface{}
	if subjectID > 0 {
		base += fmt.Sprintf(" AND sc.subject_id = $%d", len(args)+1)
		args = append(args, subjectID)
	}
	if courseID > 0 {
		base += fmt.Sprintf(" AND sc.course_id = $%d", len(args)+1)
		args = append(args, courseID)
	}

	query := `SELECT sc.id, sc.subject_id, sc.course_id, sc.shift, sc.campus_id, sc.created_at,
sub.code AS subject_code, sub.name AS subject_name, c.name AS course_name, cp.name AS campus_name ` + base +
		` ORDER BY LENGTH(sub.code) ASC, sub.code ASC, c.name ASC`
	var links []models.SubjectCourseDetail
	if err := r.db.SelectContext(ctx, &links, query, args...); err != nil {
		return nil, fmt.Errorf("list subject courses: %w", err)
	}
	return links, nil
}

// LinkExists reports whether the (subject, course, shift) link is stored. A nil shift matches only untagged links.
func (r *CourseRepository) LinkExists(ctx context.Context, subjectID, courseID int64, shift *models.Shift) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM subject_courses WHERE subject_id = $1 AND course_id = $2 AND COALESCE(shift, '') = COALESCE($3, ''))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, subjectID, courseID, shiftArg(shift)); err != nil {
		return false, fmt.Errorf("check subject course: %w", err)
	}
	return exists, nil
}

// CreateLink inserts a subject-course link.
func (r *CourseRepository) CreateLink(ctx context.Context, exec sqlx.ExtContext, link *models.SubjectCourse) error {
	const query = `INSERT INTO subject_courses (subject_id, course_id, shift, campus_id) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	if err := r.exec(exec).QueryRowxContext(ctx, query, link.SubjectID, link.CourseID, shiftArg(link.Shift), link.CampusID).
		Scan(&link.ID, &link.CreatedAt); err != nil {
		return writeError("create subject course", err)
	}
	return nil
}

func shiftArg(shift *models.Shift) *string {
	if shift == nil {
		return nil
	}
	v := string(*shift)
	return &v
}
