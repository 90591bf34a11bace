package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	memEnrollments
}

func (m *mockEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	out := []models.EnrollmentDetail{}
	for _, e := range m.items {
		if filter.TermID > 0 && e.TermID != filter.TermID {
			continue
		}
		out = append(out, models.EnrollmentDetail{Enrollment: e})
	}
	return out, len(out), nil
}

func newEnrollmentFixture() (*EnrollmentService, *mockEnrollmentRepo) {
	repo := &mockEnrollmentRepo{}
	refs := EnrollmentReferences{
		Students: byID[models.Student]{1: {ID: 1, NationalID: "40111222"}},
		Subjects: byID[models.Subject]{5: {ID: 5, Code: "c.5"}},
		Terms:    byID[models.Term]{7: {ID: 7}},
	}
	return NewEnrollmentService(repo, refs, nil, nil), repo
}

func TestEnrollmentServiceCreateRejectsDuplicates(t *testing.T) {
	svc, repo := newEnrollmentFixture()
	req := CreateEnrollmentRequest{StudentID: 1, SubjectID: 5, TermID: 7}

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicateKey))
	assert.Len(t, repo.items, 1)

	items, pagination, err := svc.List(context.Background(), models.EnrollmentFilter{TermID: 7})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestEnrollmentServiceValidatesReferences(t *testing.T) {
	svc, _ := newEnrollmentFixture()

	_, err := svc.Create(context.Background(), CreateEnrollmentRequest{StudentID: 2, SubjectID: 5, TermID: 7})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Create(context.Background(), CreateEnrollmentRequest{StudentID: 1, SubjectID: 5})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
