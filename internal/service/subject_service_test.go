package service

import (
	"context"
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

type mockSubjectRepo struct {
	byID[models.Subject]
	created     []models.Subject
	deleted     []int64
	enrolled    map[int64]int
	enrolledErr map[int64]error
	stats       *models.SubjectStats
}

func (m *mockSubjectRepo) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	out := make([]models.Subject, 0, len(m.byID))
	for id := int64(1); id <= int64(len(m.byID)); id++ {
		if s, ok := m.byID[id]; ok {
			out = append(out, *s)
		}
	}
	return out, len(out), nil
}

func (m *mockSubjectRepo) Create(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error {
	for _, s := range m.byID {
		if s.Code == subject.Code {
			return repository.ErrDuplicateKey
		}
	}
	subject.ID = int64(len(m.byID) + 1)
	m.byID[subject.ID] = subject
	m.created = append(m.created, *subject)
	return nil
}

func (m *mockSubjectRepo) Update(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error {
	m.byID[subject.ID] = subject
	return nil
}

func (m *mockSubjectRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockSubjectRepo) EnrolledCount(ctx context.Context, subjectID, termID int64) (int, error) {
	if err := m.enrolledErr[subjectID]; err != nil {
		return 0, err
	}
	return m.enrolled[subjectID], nil
}

func (m *mockSubjectRepo) Stats(ctx context.Context, termID *int64) (*models.SubjectStats, error) {
	return m.stats, nil
}

func TestSubjectServiceListProjection(t *testing.T) {
	repo := &mockSubjectRepo{
		byID: byID[models.Subject]{
			1: {ID: 1, Code: "c.1", Name: "Matemática"},
			2: {ID: 2, Code: "c.2", Name: "Física"},
		},
		enrolled:    map[int64]int{1: 25},
		enrolledErr: map[int64]error{2: errors.New("connection reset")},
	}
	assignments := &memAssignments{items: []models.AssignmentDetail{
		session(1, 1, "c.1", nil, "Martes", "08:00", models.ModalityInPerson),
		session(2, 1, "c.1", nil, "Lunes", "08:00", models.ModalityInPerson),
	}}
	svc := NewSubjectService(repo, assignments, nil, zap.NewNop())

	term := int64(1)
	views, pagination, err := svc.List(context.Background(), models.SubjectFilter{}, &term)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 2, pagination.TotalCount)
	assert.Equal(t, 50, pagination.PageSize)

	assert.Equal(t, 25, views[0].Enrolled)
	require.Len(t, views[0].Assignments, 2)
	assert.Equal(t, "Lunes", *views[0].Assignments[0].Day)
	assert.Empty(t, views[0].ProjectionError)

	assert.Equal(t, "connection reset", views[1].ProjectionError)
	assert.Empty(t, views[1].Assignments)
}

func TestSubjectServiceCreateNormalizesCode(t *testing.T) {
	repo := &mockSubjectRepo{byID: byID[models.Subject]{}}
	svc := NewSubjectService(repo, &memAssignments{}, nil, nil)

	subject, err := svc.Create(context.Background(), CreateSubjectRequest{Code: "C.12", MeetingLink: strPtr("zoom.us/j/9")})
	require.NoError(t, err)
	assert.Equal(t, "c.12", subject.Code)
	assert.Equal(t, "Cátedra c.12", subject.Name)
	assert.Equal(t, "https://zoom.us/j/9", *subject.MeetingLink)

	_, err = svc.Create(context.Background(), CreateSubjectRequest{Code: "12", Name: "Otra"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicateKey))

	_, err = svc.Create(context.Background(), CreateSubjectRequest{Code: "matemática"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestSubjectServiceUpdateAndDelete(t *testing.T) {
	repo := &mockSubjectRepo{byID: byID[models.Subject]{1: {ID: 1, Code: "c.1", Name: "Matemática", MeetingLink: strPtr("https://zoom.us/j/1")}}}
	svc := NewSubjectService(repo, &memAssignments{}, nil, nil)

	updated, err := svc.Update(context.Background(), 1, UpdateSubjectRequest{Name: "Matemática I", MeetingLink: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "Matemática I", updated.Name)
	assert.Equal(t, "c.1", updated.Code)
	assert.Nil(t, updated.MeetingLink)

	_, err = svc.Update(context.Background(), 9, UpdateSubjectRequest{Name: "x"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Equal(t, []int64{1}, repo.deleted)
	assert.True(t, appErrors.Is(svc.Delete(context.Background(), 9), appErrors.ErrNotFound))
}
