package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/iea-horarios-api/internal/models"
)

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "national_id", "first_name", "last_name", "email", "created_at", "updated_at"}).
		AddRow(1, "20111222", "Ana", "Gómez", nil, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT id, national_id, first_name, last_name, email, created_at, updated_at FROM students WHERE 1=1 AND \(LOWER\(first_name\) LIKE \$1 .* LIMIT 10 OFFSET 10`).
		WithArgs("%ana%").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students WHERE 1=1 AND`).
		WithArgs("%ana%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	students, total, err := repo.List(context.Background(), models.StudentFilter{Search: "Ana", Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "20111222", students[0].NationalID)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByNationalIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`FROM students WHERE national_id = \$1`).
		WithArgs("20111222").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByNationalID(context.Background(), "20111222")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStudentRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("INSERT INTO students").
		WithArgs("20111222", "Ana", "Gómez", nil).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "students_national_id_key"})

	err := repo.Create(context.Background(), nil, &models.Student{NationalID: "20111222", FirstName: "Ana", LastName: "Gómez"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}
