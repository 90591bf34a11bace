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

// hoursPerAssignment is the weekly load credited for each assignment.
const hoursPerAssignment = 2

type instructorRepository interface {
	List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, int, error)
	FindByID(ctx context.Context, id int64) (*models.Instructor, error)
	Create(ctx context.Context, exec sqlx.ExtContext, instructor *models.Instructor) error
	Update(ctx context.Context, exec sqlx.ExtContext, instructor *models.Instructor) error
	Delete(ctx context.Context, id int64) error
	Campuses(ctx context.Context, instructorID int64) ([]models.Campus, error)
	ReplaceCampuses(ctx context.Context, exec sqlx.ExtContext, instructorID int64, campusIDs []int64) error
	StudentCount(ctx context.Context, instructorID, termID int64) (int, error)
}

// InstructorRequest captures fields for creating or updating instructors. A nil CampusIDs keeps the
// current campus list on update.
type InstructorRequest struct {
	NationalID string  `json:"national_id" validate:"required"`
	FirstName  string  `json:"first_name" validate:"max=100"`
	LastName   string  `json:"last_name" validate:"max=100"`
	Email      string  `json:"email" validate:"omitempty,email,max=150"`
	CampusIDs  []int64 `json:"campus_ids" validate:"omitempty,dive,gt=0"`
}

// InstructorService manages instructors and builds their read projection.
type InstructorService struct {
	repo        instructorRepository
	assignments assignmentLister
	tx          txProvider
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewInstructorService creates an instructor service.
func NewInstructorService(repo instructorRepository, assignments assignmentLister, tx txProvider, validate *validator.Validate, logger *zap.Logger) *InstructorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{repo: repo, assignments: assignments, tx: tx, validator: validate, logger: logger}
}

// List returns a page of instructor projections. Each row reports its own projection failure.
func (s *InstructorService) List(ctx context.Context, filter models.InstructorFilter, termID *int64) ([]models.InstructorView, *models.Pagination, error) {
	instructors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	views := make([]models.InstructorView, 0, len(instructors))
	for _, instructor := range instructors {
		views = append(views, s.project(ctx, instructor, termID))
	}
	page, size := models.NormalizePage(filter.Page, filter.PageSize)
	return views, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one instructor projection.
func (s *InstructorService) Get(ctx context.Context, id int64, termID *int64) (*models.InstructorView, error) {
	instructor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "instructor", "load")
	}
	view := s.project(ctx, *instructor, termID)
	return &view, nil
}

func (s *InstructorService) project(ctx context.Context, instructor models.Instructor, termID *int64) models.InstructorView {
	view := models.InstructorView{
		Instructor:  instructor,
		Campuses:    []models.Campus{},
		Assignments: []models.AssignmentDetail{},
		Modality:    models.ModalityNoAssignments,
	}

	campuses, err := s.repo.Campuses(ctx, instructor.ID)
	if err != nil {
		return s.projectionFailed(view, err)
	}
	view.Campuses = campuses

	filter := models.AssignmentFilter{InstructorID: instructor.ID}
	if termID != nil {
		filter.TermID = *termID
	}
	assignments, err := s.assignments.List(ctx, filter)
	if err != nil {
		return s.projectionFailed(view, err)
	}
	SortBySlot(assignments)
	view.Assignments = assignments
	view.Modality = DeriveInstructorModality(assignments)
	view.Hours = hoursPerAssignment * len(assignments)

	if termID != nil {
		students, err := s.repo.StudentCount(ctx, instructor.ID, *termID)
		if err != nil {
			return s.projectionFailed(view, err)
		}
		view.Students = students
	}
	return view
}

func (s *InstructorService) projectionFailed(view models.InstructorView, err error) models.InstructorView {
	s.logger.Warn("instructor projection failed", zap.Int64("instructor_id", view.ID), zap.Error(err))
	view.ProjectionError = err.Error()
	return view
}

// Create adds an instructor and its campuses in one transaction.
func (s *InstructorService) Create(ctx context.Context, req InstructorRequest) (*models.Instructor, error) {
	instructor, err := s.build(req)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, instructor, req.CampusIDs, false); err != nil {
		return nil, err
	}
	return instructor, nil
}

// Update replaces instructor fields; a nil campus list is left untouched.
func (s *InstructorService) Update(ctx context.Context, id int64, req InstructorRequest) (*models.Instructor, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "instructor", "load")
	}
	instructor, err := s.build(req)
	if err != nil {
		return nil, err
	}
	instructor.ID = existing.ID
	instructor.CreatedAt = existing.CreatedAt
	if err := s.save(ctx, instructor, req.CampusIDs, true); err != nil {
		return nil, err
	}
	return instructor, nil
}

// Delete removes an instructor; its assignments stay with no instructor.
func (s *InstructorService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "instructor", "delete")
	}
	s.logger.Info("instructor deleted", zap.Int64("instructor_id", id))
	return nil
}

func (s *InstructorService) build(req InstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	nationalID, ok := classify.NormalizeNationalID(req.NationalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid national ID %q", req.NationalID))
	}
	return &models.Instructor{
		NationalID: nationalID,
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      optionalString(strings.ToLower(req.Email)),
	}, nil
}

func (s *InstructorService) save(ctx context.Context, instructor *models.Instructor, campusIDs []int64, update bool) (err error) {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if update {
		err = s.repo.Update(ctx, tx, instructor)
	} else {
		err = s.repo.Create(ctx, tx, instructor)
	}
	if err != nil {
		return storeWriteError(err, "national ID already registered", "failed to save instructor")
	}
	if campusIDs != nil {
		if err = s.repo.ReplaceCampuses(ctx, tx, instructor.ID, campusIDs); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save instructor campuses")
		}
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit instructor")
	}
	return nil
}
