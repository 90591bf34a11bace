package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, error)
	Create(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error
	ListLinks(ctx context.Context, subjectID, courseID int64) ([]models.SubjectCourseDetail, error)
}

// CreateCourseRequest captures fields for creating courses.
type CreateCourseRequest struct {
	Name     string `json:"name" validate:"required,max=300"`
	CampusID *int64 `json:"campus_id" validate:"omitempty,gt=0"`
}

// CourseService manages courses and their subject offerings.
type CourseService struct {
	repo      courseRepository
	campuses  campusFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates a course service.
func NewCourseService(repo courseRepository, campuses campusFinder, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, campuses: campuses, validator: validate, logger: logger}
}

// List returns courses with their campus names.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, error) {
	courses, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Create adds a course, optionally tied to an existing campus.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if req.CampusID != nil {
		if _, err := s.campuses.FindByID(ctx, *req.CampusID); err != nil {
			return nil, notFoundOr(err, "campus", "load")
		}
	}
	course := &models.Course{Name: strings.TrimSpace(req.Name), CampusID: req.CampusID}
	if err := s.repo.Create(ctx, nil, course); err != nil {
		return nil, storeWriteError(err, "course already exists", "failed to create course")
	}
	return course, nil
}

// ListLinks returns subject offerings filtered by subject and/or course (0 means any).
func (s *CourseService) ListLinks(ctx context.Context, subjectID, courseID int64) ([]models.SubjectCourseDetail, error) {
	links, err := s.repo.ListLinks(ctx, subjectID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subject courses")
	}
	return links, nil
}
