package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/iea-horarios-api/internal/classify"
	"github.com/noah-isme/iea-horarios-api/internal/models"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error
	Update(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error
}

// StudentRequest captures fields for creating or updating students.
type StudentRequest struct {
	NationalID string `json:"national_id" validate:"required"`
	FirstName  string `json:"first_name" validate:"max=100"`
	LastName   string `json:"last_name" validate:"max=100"`
	Email      string `json:"email" validate:"omitempty,email,max=150"`
}

// StudentService orchestrates student operations.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns a page of students.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page, size := models.NormalizePage(filter.Page, filter.PageSize)
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "student", "load")
	}
	return student, nil
}

// Create registers a student. National IDs are unique after normalization.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	student, err := s.build(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, nil, student); err != nil {
		return nil, storeWriteError(err, "national ID already registered", "failed to create student")
	}
	return student, nil
}

// Update replaces student fields.
func (s *StudentService) Update(ctx context.Context, id int64, req StudentRequest) (*models.Student, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "student", "load")
	}
	student, err := s.build(req)
	if err != nil {
		return nil, err
	}
	student.ID = existing.ID
	student.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, nil, student); err != nil {
		return nil, storeWriteError(err, "national ID already registered", "failed to update student")
	}
	return student, nil
}

func (s *StudentService) build(req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	nationalID, ok := classify.NormalizeNationalID(req.NationalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid national ID %q", req.NationalID))
	}
	return &models.Student{
		NationalID: nationalID,
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      optionalString(strings.ToLower(req.Email)),
	}, nil
}
