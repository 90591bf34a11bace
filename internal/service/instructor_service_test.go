package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	"github.com/noah-isme/iea-horarios-api/internal/repository"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
)

type mockInstructorRepo struct {
	byID[models.Instructor]
	campuses    map[int64][]models.Campus
	campusErr   error
	replaced    map[int64][]int64
	students    int
	deleteErr   error
	createErr   error
	updateCalls int
}

func (m *mockInstructorRepo) List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, int, error) {
	out := []models.Instructor{}
	for id := int64(1); id <= int64(len(m.byID)); id++ {
		if i, ok := m.byID[id]; ok {
			out = append(out, *i)
		}
	}
	return out, len(out), nil
}

func (m *mockInstructorRepo) Create(ctx context.Context, exec sqlx.ExtContext, instructor *models.Instructor) error {
	if m.createErr != nil {
		return m.createErr
	}
	instructor.ID = int64(len(m.byID) + 1)
	m.byID[instructor.ID] = instructor
	return nil
}

func (m *mockInstructorRepo) Update(ctx context.Context, exec sqlx.ExtContext, instructor *models.Instructor) error {
	m.updateCalls++
	m.byID[instructor.ID] = instructor
	return nil
}

func (m *mockInstructorRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteErr
}

func (m *mockInstructorRepo) Campuses(ctx context.Context, instructorID int64) ([]models.Campus, error) {
	if m.campusErr != nil {
		return nil, m.campusErr
	}
	return append([]models.Campus{}, m.campuses[instructorID]...), nil
}

func (m *mockInstructorRepo) ReplaceCampuses(ctx context.Context, exec sqlx.ExtContext, instructorID int64, campusIDs []int64) error {
	if m.replaced == nil {
		m.replaced = map[int64][]int64{}
	}
	m.replaced[instructorID] = campusIDs
	return nil
}

func (m *mockInstructorRepo) StudentCount(ctx context.Context, instructorID, termID int64) (int, error) {
	return m.students, nil
}

func TestInstructorServiceProjection(t *testing.T) {
	repo := &mockInstructorRepo{
		byID:     byID[models.Instructor]{1: {ID: 1, NationalID: "20111222", FirstName: "Ana", LastName: "Gómez"}},
		campuses: map[int64][]models.Campus{1: {{ID: 1, Name: "Avellaneda"}}},
		students: 40,
	}
	a := session(1, 100, "c.1", int64Ptr(1), "Lunes", "08:00", models.ModalityInPerson)
	a.CampusID = int64Ptr(1)
	b := session(2, 200, "c.2", int64Ptr(1), "Martes", "08:00", models.ModalityVirtualNight)
	assignments := &memAssignments{items: []models.AssignmentDetail{a, b}}
	svc := NewInstructorService(repo, assignments, nil, nil, zap.NewNop())

	term := int64(1)
	view, err := svc.Get(context.Background(), 1, &term)
	require.NoError(t, err)
	assert.Equal(t, models.ModalityCampusVirtual, view.Modality)
	assert.Equal(t, 4, view.Hours)
	assert.Equal(t, 40, view.Students)
	assert.Len(t, view.Campuses, 1)

	_, err = svc.Get(context.Background(), 2, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestInstructorServiceListReportsRowFailures(t *testing.T) {
	repo := &mockInstructorRepo{
		byID:      byID[models.Instructor]{1: {ID: 1, NationalID: "20111222"}},
		campusErr: errors.New("timeout"),
	}
	svc := NewInstructorService(repo, &memAssignments{}, nil, nil, zap.NewNop())

	views, _, err := svc.List(context.Background(), models.InstructorFilter{}, nil)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "timeout", views[0].ProjectionError)
	assert.Equal(t, models.ModalityNoAssignments, views[0].Modality)
}

func TestInstructorServiceCreate(t *testing.T) {
	db, mock := newTxMock(t)
	repo := &mockInstructorRepo{byID: byID[models.Instructor]{}}
	svc := NewInstructorService(repo, &memAssignments{}, db, nil, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()
	created, err := svc.Create(context.Background(), InstructorRequest{
		NationalID: "30.123.456-7",
		FirstName:  "Juan",
		Email:      "JUAN@MAIL.COM",
		CampusIDs:  []int64{1, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "301234567", created.NationalID)
	assert.Equal(t, "juan@mail.com", *created.Email)
	assert.Equal(t, []int64{1, 2}, repo.replaced[created.ID])

	repo.createErr = repository.ErrDuplicateKey
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.Create(context.Background(), InstructorRequest{NationalID: "301234567"})
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicateKey))

	_, err = svc.Create(context.Background(), InstructorRequest{NationalID: "123"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInstructorServiceUpdateKeepsCampusesWhenOmitted(t *testing.T) {
	db, mock := newTxMock(t)
	repo := &mockInstructorRepo{byID: byID[models.Instructor]{1: {ID: 1, NationalID: "20111222"}}}
	svc := NewInstructorService(repo, &memAssignments{}, db, nil, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.Update(context.Background(), 1, InstructorRequest{NationalID: "20111222", LastName: "Paz"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.updateCalls)
	assert.Nil(t, repo.replaced)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInstructorServiceDelete(t *testing.T) {
	repo := &mockInstructorRepo{byID: byID[models.Instructor]{}}
	svc := NewInstructorService(repo, &memAssignments{}, nil, nil, nil)
	require.NoError(t, svc.Delete(context.Background(), 1))

	repo.deleteErr = sql.ErrNoRows
	assert.True(t, appErrors.Is(svc.Delete(context.Background(), 1), appErrors.ErrNotFound))
}
