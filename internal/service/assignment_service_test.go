package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
)

// byID is an in-memory FindByID lookup.
type byID[T any] map[int64]*T

func (m byID[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	if v, ok := m[id]; ok {
		clone := *v
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

type memAssignments struct {
	items   []models.AssignmentDetail
	locks   int
	listErr error
}

func (m *memAssignments) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []models.AssignmentDetail{}
	for _, a := range m.items {
		switch {
		case filter.TermID > 0 && a.TermID != filter.TermID,
			filter.SubjectID > 0 && a.SubjectID != filter.SubjectID,
			filter.InstructorID > 0 && (a.InstructorID == nil || *a.InstructorID != filter.InstructorID),
			filter.ScheduledOnly && !a.Scheduled():
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memAssignments) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	for _, a := range m.items {
		if a.ID == id {
			clone := a.Assignment
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memAssignments) LockSlot(ctx context.Context, exec sqlx.ExtContext, subjectID, termID int64) error {
	m.locks++
	return nil
}

func (m *memAssignments) FindSubjectConflicts(ctx context.Context, exec sqlx.ExtContext, subjectID, termID int64, day, start string, excludeID int64) ([]models.AssignmentDetail, error) {
	out := []models.AssignmentDetail{}
	for _, a := range m.items {
		if a.SubjectID == subjectID && a.TermID == termID && a.Scheduled() && *a.Day == day && *a.StartTime == start && a.ID != excludeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAssignments) Create(ctx context.Context, exec sqlx.ExtContext, a *models.Assignment) error {
	a.ID = int64(len(m.items) + 1)
	m.items = append(m.items, models.AssignmentDetail{Assignment: *a})
	return nil
}

func (m *memAssignments) Update(ctx context.Context, exec sqlx.ExtContext, a *models.Assignment) error {
	for i := range m.items {
		if m.items[i].ID == a.ID {
			a.Modified = true
			m.items[i].Assignment = *a
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memAssignments) Delete(ctx context.Context, id int64) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func newTxMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func newAssignmentFixture(t *testing.T) (*AssignmentService, *memAssignments, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTxMock(t)
	repo := &memAssignments{}
	refs := AssignmentReferences{
		Subjects:    byID[models.Subject]{100: {ID: 100, Code: "c.1", Name: "Matemática"}, 200: {ID: 200, Code: "c.2", Name: "Física"}},
		Terms:       byID[models.Term]{1: {ID: 1, Name: "1er Cuatrimestre 2026", Active: true}},
		Instructors: byID[models.Instructor]{10: {ID: 10, NationalID: "20111222"}},
		Campuses:    byID[models.Campus]{1: {ID: 1, Name: "Avellaneda"}},
	}
	return NewAssignmentService(repo, refs, db, nil, nil, zap.NewNop()), repo, mock
}

func inPersonInput(subjectID int64, day, start string) models.AssignmentInput {
	return models.AssignmentInput{
		SubjectID: subjectID,
		TermID:    1,
		Modality:  models.ModalityInPerson,
		Day:       strPtr(day),
		StartTime: strPtr(start),
		EndTime:   strPtr("10:00"),
	}
}

func TestAssignmentServiceRejectsSubjectOverlap(t *testing.T) {
	svc, repo, mock := newAssignmentFixture(t)
	repo.items = []models.AssignmentDetail{
		session(1, 100, "c.1", nil, "Lunes", "08:00", models.ModalityInPerson),
		session(2, 100, "c.1", nil, "Lunes", "08:00", models.ModalityInPerson),
	}

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), inPersonInput(100, "monday", "8:00"))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrSchedulingConflict))

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	conflict, ok := appErr.Details.(*models.Conflict)
	require.True(t, ok)
	assert.ElementsMatch(t, []int64{1, 2}, conflict.AssignmentIDs)
	assert.Len(t, repo.items, 2)

	mock.ExpectBegin()
	mock.ExpectCommit()
	created, err := svc.Create(context.Background(), inPersonInput(100, "Martes", "08:00"))
	require.NoError(t, err)
	assert.Equal(t, "Martes", *created.Day)
	assert.Len(t, repo.items, 3)
	assert.Equal(t, 2, repo.locks)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentServiceAllowsAsynchronousAndOtherSubjects(t *testing.T) {
	svc, repo, mock := newAssignmentFixture(t)
	repo.items = []models.AssignmentDetail{session(1, 100, "c.1", nil, "Lunes", "08:00", models.ModalityInPerson)}

	mock.ExpectBegin()
	mock.ExpectCommit()
	input := inPersonInput(100, "Lunes", "08:00")
	input.Modality = models.ModalityAsynchronous
	_, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 0, repo.locks)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = svc.Create(context.Background(), inPersonInput(200, "Lunes", "08:00"))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentServiceUpdateExcludesItself(t *testing.T) {
	svc, repo, mock := newAssignmentFixture(t)
	repo.items = []models.AssignmentDetail{session(1, 100, "c.1", nil, "Lunes", "08:00", models.ModalityInPerson)}

	mock.ExpectBegin()
	mock.ExpectCommit()
	input := inPersonInput(100, "Lunes", "08:00")
	input.InstructorID = int64Ptr(10)
	updated, err := svc.Update(context.Background(), 1, input)
	require.NoError(t, err)
	assert.True(t, updated.Modified)
	assert.Equal(t, int64(10), *repo.items[0].InstructorID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentServiceValidatesInput(t *testing.T) {
	svc, _, _ := newAssignmentFixture(t)

	_, err := svc.Create(context.Background(), inPersonInput(100, "someday", "08:00"))
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	input := inPersonInput(100, "Lunes", "11:00")
	_, err = svc.Create(context.Background(), input)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	input = inPersonInput(100, "Lunes", "08:00")
	input.Modality = "hybrid"
	_, err = svc.Create(context.Background(), input)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), inPersonInput(999, "Lunes", "08:00"))
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	input = inPersonInput(100, "Lunes", "08:00")
	input.CampusID = int64Ptr(42)
	_, err = svc.Create(context.Background(), input)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestAssignmentServiceCheckSubjectConflict(t *testing.T) {
	svc, repo, _ := newAssignmentFixture(t)
	repo.items = []models.AssignmentDetail{session(1, 100, "c.1", nil, "Lunes", "08:00", models.ModalityInPerson)}

	conflict, err := svc.CheckSubjectConflict(context.Background(), 100, "Lunes", "08:00", 1, 0)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "c.1", conflict.SubjectCode)

	conflict, err = svc.CheckSubjectConflict(context.Background(), 100, "Lunes", "08:00", 1, 1)
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestAssignmentServiceFindAllOverlaps(t *testing.T) {
	svc, repo, _ := newAssignmentFixture(t)
	repo.items = []models.AssignmentDetail{
		session(1, 100, "c.1", int64Ptr(10), "Lunes", "08:00", models.ModalityInPerson),
		session(2, 100, "c.1", int64Ptr(20), "Lunes", "08:00", models.ModalityInPerson),
		session(3, 200, "c.2", int64Ptr(10), "Lunes", "08:00", models.ModalityInPerson),
	}

	term := int64(1)
	report, err := svc.FindAllOverlaps(context.Background(), &term)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 1, report.Critical)
	assert.Equal(t, 1, report.High)

	repo.listErr = errors.New("boom")
	_, err = svc.FindAllOverlaps(context.Background(), nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestAssignmentServiceScheduleSortsByWeekday(t *testing.T) {
	svc, repo, _ := newAssignmentFixture(t)
	repo.items = []models.AssignmentDetail{
		session(1, 100, "c.1", nil, "Viernes", "08:00", models.ModalityInPerson),
		session(2, 200, "c.2", nil, "Lunes", "18:00", models.ModalityInPerson),
		session(3, 200, "c.2", nil, "Lunes", "09:00", models.ModalityInPerson),
		session(4, 200, "c.2", nil, "Martes", "09:00", models.ModalityAsynchronous),
	}

	items, err := svc.Schedule(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{items[0].ID, items[1].ID, items[2].ID})
}
