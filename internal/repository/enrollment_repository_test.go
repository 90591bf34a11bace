package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/iea-horarios-api/internal/models"
)

func TestEnrollmentRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "subject_id", "term_id", "course_id", "created_at", "student_name", "student_national_id", "subject_code", "course_name"}).
		AddRow(1, 4, 9, 7, nil, time.Now(), "Gómez, Ana", "20111222", "c.9", nil)
	mock.ExpectQuery(`SELECT e.id, .* AND e.student_id = \$1 AND e.term_id = \$2 ORDER BY e.created_at DESC, e.id DESC LIMIT 50 OFFSET 0`).
		WithArgs(int64(4), int64(7)).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM enrollments e`).
		WithArgs(int64(4), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	enrollments, total, err := repo.List(context.Background(), models.EnrollmentFilter{StudentID: 4, TermID: 7})
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assert.Equal(t, "c.9", enrollments[0].SubjectCode)
	assert.Nil(t, enrollments[0].CourseName)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateUsesExec(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO enrollments").
		WithArgs(int64(4), int64(9), int64(7), nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(12, time.Now()))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	enrollment := &models.Enrollment{StudentID: 4, SubjectID: 9, TermID: 7}
	require.NoError(t, repo.Create(context.Background(), tx, enrollment))
	require.NoError(t, tx.Commit())
	assert.Equal(t, int64(12), enrollment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
