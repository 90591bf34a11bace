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

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id int64) (*models.Subject, error)
	Create(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error
	Update(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error
	Delete(ctx context.Context, id int64) error
	EnrolledCount(ctx context.Context, subjectID, termID int64) (int, error)
	Stats(ctx context.Context, termID *int64) (*models.SubjectStats, error)
}

type assignmentLister interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error)
}

// CreateSubjectRequest captures fields for creating subjects. Code accepts "c.12" or "12".
type CreateSubjectRequest struct {
	Code        string  `json:"code" validate:"required"`
	Name        string  `json:"name" validate:"max=200"`
	MeetingLink *string `json:"meeting_link" validate:"omitempty,max=500"`
}

// UpdateSubjectRequest modifies subject fields. Empty fields keep their value.
type UpdateSubjectRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" validate:"max=200"`
	MeetingLink *string `json:"meeting_link" validate:"omitempty,max=500"`
}

// SubjectService handles subject workflows and the subject list projection.
type SubjectService struct {
	repo        subjectRepository
	assignments assignmentLister
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, assignments assignmentLister, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, assignments: assignments, validator: validate, logger: logger}
}

// List returns a page of subjects with their assignments and, for a term, the enrolled count. A row
// whose projection fails carries the failure in ProjectionError instead of failing the page.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter, termID *int64) ([]models.SubjectView, *models.Pagination, error) {
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}

	views := make([]models.SubjectView, 0, len(subjects))
	for _, subject := range subjects {
		views = append(views, s.project(ctx, subject, termID))
	}
	page, size := models.NormalizePage(filter.Page, filter.PageSize)
	return views, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns the projection of one subject.
func (s *SubjectService) Get(ctx context.Context, id int64, termID *int64) (*models.SubjectView, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "subject", "load")
	}
	view := s.project(ctx, *subject, termID)
	return &view, nil
}

func (s *SubjectService) project(ctx context.Context, subject models.Subject, termID *int64) models.SubjectView {
	view := models.SubjectView{Subject: subject, Assignments: []models.AssignmentDetail{}}
	filter := models.AssignmentFilter{SubjectID: subject.ID}
	if termID != nil {
		filter.TermID = *termID
		enrolled, err := s.repo.EnrolledCount(ctx, subject.ID, *termID)
		if err != nil {
			return s.projectionFailed(view, err)
		}
		view.Enrolled = enrolled
	}
	assignments, err := s.assignments.List(ctx, filter)
	if err != nil {
		return s.projectionFailed(view, err)
	}
	SortBySlot(assignments)
	view.Assignments = assignments
	return view
}

func (s *SubjectService) projectionFailed(view models.SubjectView, err error) models.SubjectView {
	s.logger.Warn("subject projection failed", zap.Int64("subject_id", view.ID), zap.Error(err))
	view.ProjectionError = err.Error()
	return view
}

// Create adds a subject. Codes are unique.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	code, err := subjectCode(req.Code)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = classify.DefaultSubjectName(code)
	}
	subject := &models.Subject{Code: code, Name: name, MeetingLink: normalizedMeetingLink(req.MeetingLink)}
	if err := s.repo.Create(ctx, nil, subject); err != nil {
		return nil, storeWriteError(err, "subject code already exists", "failed to create subject")
	}
	return subject, nil
}

// Update modifies an existing subject.
func (s *SubjectService) Update(ctx context.Context, id int64, req UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "subject", "load")
	}

	if strings.TrimSpace(req.Code) != "" {
		code, err := subjectCode(req.Code)
		if err != nil {
			return nil, err
		}
		subject.Code = code
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		subject.Name = name
	}
	if req.MeetingLink != nil {
		subject.MeetingLink = normalizedMeetingLink(req.MeetingLink)
	}

	if err := s.repo.Update(ctx, nil, subject); err != nil {
		return nil, storeWriteError(err, "subject code already exists", "failed to update subject")
	}
	return subject, nil
}

// Delete removes a subject together with its assignments, links and enrollments.
func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "subject", "load")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "subject", "delete")
	}
	s.logger.Info("subject deleted", zap.Int64("subject_id", id))
	return nil
}

// Stats summarises subjects and assignments, optionally for one term.
func (s *SubjectService) Stats(ctx context.Context, termID *int64) (*models.SubjectStats, error) {
	stats, err := s.repo.Stats(ctx, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute subject stats")
	}
	return stats, nil
}

func subjectCode(raw string) (string, error) {
	code, ok := classify.NormalizeSubjectCode(raw)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid subject code %q", raw))
	}
	return code, nil
}

// normalizedMeetingLink maps a blank link to nil.
func normalizedMeetingLink(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	link := normalizeLink(*v)
	return &link
}
