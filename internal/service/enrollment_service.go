package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	Exists(ctx context.Context, studentID, subjectID, termID int64) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, enrollment *models.Enrollment) error
}

type studentFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

// EnrollmentReferences groups the lookups used to validate enrollment references.
type EnrollmentReferences struct {
	Students studentFinder
	Subjects subjectFinder
	Terms    termFinder
}

// CreateEnrollmentRequest captures fields for enrolling a student.
type CreateEnrollmentRequest struct {
	StudentID int64  `json:"student_id" validate:"required,gt=0"`
	SubjectID int64  `json:"subject_id" validate:"required,gt=0"`
	TermID    int64  `json:"term_id" validate:"required,gt=0"`
	CourseID  *int64 `json:"course_id" validate:"omitempty,gt=0"`
}

// EnrollmentService manages student enrollments.
type EnrollmentService struct {
	repo      enrollmentRepository
	refs      EnrollmentReferences
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService creates an enrollment service.
func NewEnrollmentService(repo enrollmentRepository, refs EnrollmentReferences, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, refs: refs, validator: validate, logger: logger}
}

// List returns a page of enrollments.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	page, size := models.NormalizePage(filter.Page, filter.PageSize)
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Create enrolls a student once per subject and term.
func (s *EnrollmentService) Create(ctx context.Context, req CreateEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	if _, err := s.refs.Students.FindByID(ctx, req.StudentID); err != nil {
		return nil, notFoundOr(err, "student", "load")
	}
	if _, err := s.refs.Subjects.FindByID(ctx, req.SubjectID); err != nil {
		return nil, notFoundOr(err, "subject", "load")
	}
	if _, err := s.refs.Terms.FindByID(ctx, req.TermID); err != nil {
		return nil, notFoundOr(err, "term", "load")
	}

	exists, err := s.repo.Exists(ctx, req.StudentID, req.SubjectID, req.TermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "student already enrolled in subject for term")
	}

	enrollment := &models.Enrollment{StudentID: req.StudentID, SubjectID: req.SubjectID, TermID: req.TermID, CourseID: req.CourseID}
	if err := s.repo.Create(ctx, nil, enrollment); err != nil {
		return nil, storeWriteError(err, "student already enrolled in subject for term", "failed to create enrollment")
	}
	return enrollment, nil
}
