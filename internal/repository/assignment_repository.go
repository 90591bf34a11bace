package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/iea-horarios-api/internal/models"
)

const assignmentColumns = "id, subject_id, term_id, instructor_id, campus_id, modality, day, start_time, end_time, receives_in_person, modified, created_at, updated_at"

const assignmentDetailSelect = `SELECT a.id, a.subject_id, a.term_id, a.instructor_id, a.campus_id, a.modality, a.day, a.start_time, a.end_time,
a.receives_in_person, a.modified, a.created_at, a.updated_at,
sub.code AS subject_code, sub.name AS subject_name, sub.meeting_link,
NULLIF(TRIM(i.first_name || ' ' || i.last_name), '') AS instructor_name,
c.name AS campus_name, t.name AS term_name
FROM assignments a
JOIN subjects sub ON sub.id = a.subject_id
JOIN terms t ON t.id = a.term_id
LEFT JOIN instructors i ON i.id = a.instructor_id
LEFT JOIN campuses c ON c.id = a.campus_id`

// AssignmentRepository persists scheduled sessions.
type AssignmentRepository struct {
	store
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{store{db: db}}
}

// List returns assignment details for the filter ordered by slot.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error) {
	var conditions []string
	var args []interface{}
	if filter.TermID > 0 {
		conditions = append(conditions, fmt.Sprintf("a.term_id = $%d", len(args)+1))
		args = append(args, filter.TermID)
	}
	if filter.SubjectID > 0 {
		conditions = append(conditions, fmt.Sprintf("a.subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.InstructorID > 0 {
		conditions = append(conditions, fmt.Sprintf("a.instructor_id = $%d", len(args)+1))
		args = append(args, filter.InstructorID)
	}
	if filter.ScheduledOnly {
		conditions = append(conditions, "a.day IS NOT NULL AND a.start_time IS NOT NULL AND a.modality <> 'asynchronous'")
	}

	query := assignmentDetailSelect + " WHERE 1=1"
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.term_id ASC, a.day ASC NULLS LAST, a.start_time ASC NULLS LAST, a.id ASC"

	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// FindByID fetches an assignment by ID.
func (r *AssignmentRepository) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	query := "SELECT " + assignmentColumns + " FROM assignments WHERE id = $1"
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// LockSlot takes a transaction-scoped advisory lock on (subject, term). Writers of the same subject and
// term serialize on it until commit or rollback.
func (r *AssignmentRepository) LockSlot(ctx context.Context, exec sqlx.ExtContext, subjectID, termID int64) error {
	const query = `SELECT pg_advisory_xact_lock(($1::BIGINT % 2147483647)::INT4, ($2::BIGINT % 2147483647)::INT4)`
	if _, err := r.exec(exec).ExecContext(ctx, query, subjectID, termID); err != nil {
		return fmt.Errorf("lock assignment slot: %w", err)
	}
	return nil
}

// FindSubjectConflicts returns non-asynchronous assignments of the subject in the same term, day and start
// time. excludeID skips the assignment being updated.
func (r *AssignmentRepository) FindSubjectConflicts(ctx context.Context, exec sqlx.ExtContext, subjectID, termID int64, day, start string, excludeID int64) ([]models.AssignmentDetail, error) {
	query := assignmentDetailSelect + ` WHERE a.subject_id = $1 AND a.term_id = $2 AND a.day = $3 AND a.start_time = $4 AND a.modality <> 'asynchronous'`
	args := []interface{}{subjectID, termID, day, start}
	if excludeID > 0 {
		query += " AND a.id <> $5"
		args = append(args, excludeID)
	}
	query += " ORDER BY a.id ASC"

	var conflicts []models.AssignmentDetail
	if err := sqlx.SelectContext(ctx, r.exec(exec), &conflicts, query, args...); err != nil {
		return nil, fmt.Errorf("find subject conflicts: %w", err)
	}
	return conflicts, nil
}

// Create inserts an assignment.
func (r *AssignmentRepository) Create(ctx context.Context, exec sqlx.ExtContext, a *models.Assignment) error {
	const query = `INSERT INTO assignments (subject_id, term_id, instructor_id, campus_id, modality, day, start_time, end_time, receives_in_person, modified)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at, updated_at`
	if err := r.exec(exec).QueryRowxContext(ctx, query,
		a.SubjectID, a.TermID, a.InstructorID, a.CampusID, string(a.Modality), a.Day, a.StartTime, a.EndTime, a.ReceivesInPerson, a.Modified,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return writeError("create assignment", err)
	}
	return nil
}

// Update overwrites an assignment and flags it as modified.
func (r *AssignmentRepository) Update(ctx context.Context, exec sqlx.ExtContext, a *models.Assignment) error {
	a.Modified = true
	a.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assignments SET subject_id = :subject_id, term_id = :term_id, instructor_id = :instructor_id, campus_id = :campus_id,
modality = :modality, day = :day, start_time = :start_time, end_time = :end_time, receives_in_person = :receives_in_person,
modified = :modified, updated_at = :updated_at WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, a); err != nil {
		return writeError("update assignment", err)
	}
	return nil
}

// Delete removes an assignment.
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}
