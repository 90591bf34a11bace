package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	"github.com/noah-isme/iea-horarios-api/internal/repository"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
)

type mockStudentRepo struct {
	byID[models.Student]
	lastFilter models.StudentFilter
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	m.lastFilter = filter
	out := []models.Student{}
	for _, s := range m.byID {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *mockStudentRepo) Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error {
	for _, s := range m.byID {
		if s.NationalID == student.NationalID {
			return repository.ErrDuplicateKey
		}
	}
	student.ID = int64(len(m.byID) + 1)
	m.byID[student.ID] = student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error {
	m.byID[student.ID] = student
	return nil
}

func TestStudentServiceCreateNormalizesNationalID(t *testing.T) {
	repo := &mockStudentRepo{byID: byID[models.Student]{}}
	svc := NewStudentService(repo, nil, zap.NewNop())

	first, err := svc.Create(context.Background(), StudentRequest{NationalID: "30.123.456-7 ", FirstName: "Eva"})
	require.NoError(t, err)
	assert.Equal(t, "301234567", first.NationalID)

	_, err = svc.Create(context.Background(), StudentRequest{NationalID: "301234567"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicateKey))
	assert.Len(t, repo.byID, 1)

	_, err = svc.Create(context.Background(), StudentRequest{NationalID: "4011", Email: "not-an-email"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestStudentServiceListAndUpdate(t *testing.T) {
	repo := &mockStudentRepo{byID: byID[models.Student]{1: {ID: 1, NationalID: "40111222", FirstName: "Eva"}}}
	svc := NewStudentService(repo, nil, nil)

	items, pagination, err := svc.List(context.Background(), models.StudentFilter{Search: "eva", Page: 2, PageSize: 500})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 50, pagination.PageSize)
	assert.Equal(t, "eva", repo.lastFilter.Search)

	updated, err := svc.Update(context.Background(), 1, StudentRequest{NationalID: "40111222", FirstName: "Eva", LastName: "Paz"})
	require.NoError(t, err)
	assert.Equal(t, "Paz", updated.LastName)

	_, err = svc.Get(context.Background(), 3)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
