package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/iea-horarios-api/internal/classify"
	"github.com/noah-isme/iea-horarios-api/internal/models"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type assignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
	LockSlot(ctx context.Context, exec sqlx.ExtContext, subjectID, termID int64) error
	FindSubjectConflicts(ctx context.Context, exec sqlx.ExtContext, subjectID, termID int64, day, start string, excludeID int64) ([]models.AssignmentDetail, error)
	Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.Assignment) error
	Update(ctx context.Context, exec sqlx.ExtContext, assignment *models.Assignment) error
	Delete(ctx context.Context, id int64) error
}

type subjectFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Subject, error)
}

type termFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Term, error)
}

type instructorFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Instructor, error)
}

type campusFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Campus, error)
}

// AssignmentReferences groups the lookups used to validate assignment references.
type AssignmentReferences struct {
	Subjects    subjectFinder
	Terms       termFinder
	Instructors instructorFinder
	Campuses    campusFinder
}

// AssignmentService owns the assignment write path and the overlap scan.
type AssignmentService struct {
	repo      assignmentRepository
	refs      AssignmentReferences
	tx        txProvider
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService instantiates AssignmentService.
func NewAssignmentService(repo assignmentRepository, refs AssignmentReferences, tx txProvider, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, refs: refs, tx: tx, metrics: metrics, validator: validate, logger: logger}
}

// List returns assignment details matching the filter.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return items, nil
}

// Schedule returns the scheduled sessions of a term sorted by weekday and start time.
func (s *AssignmentService) Schedule(ctx context.Context, termID int64) ([]models.AssignmentDetail, error) {
	items, err := s.repo.List(ctx, models.AssignmentFilter{TermID: termID, ScheduledOnly: true})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	SortBySlot(items)
	return items, nil
}

// Get returns a single assignment.
func (s *AssignmentService) Get(ctx context.Context, id int64) (*models.Assignment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return a, nil
}

// Create validates and stores a new assignment, rejecting subject overlaps.
func (s *AssignmentService) Create(ctx context.Context, input models.AssignmentInput) (*models.Assignment, error) {
	assignment, subject, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.write(ctx, assignment, subject, false); err != nil {
		return nil, err
	}
	s.logger.Info("assignment created", zap.Int64("assignment_id", assignment.ID), zap.String("subject", subject.Code))
	return assignment, nil
}

// Update overwrites an assignment, rejecting subject overlaps, and marks it as modified.
func (s *AssignmentService) Update(ctx context.Context, id int64, input models.AssignmentInput) (*models.Assignment, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	assignment, subject, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}
	assignment.ID = existing.ID
	assignment.CreatedAt = existing.CreatedAt
	if err := s.write(ctx, assignment, subject, true); err != nil {
		return nil, err
	}
	return assignment, nil
}

// Delete removes an assignment.
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	return nil
}

// CheckSubjectConflict reports the conflict a session of subjectID at (day, start) in termID would
// create, ignoring excludeID. Asynchronous sessions never conflict.
func (s *AssignmentService) CheckSubjectConflict(ctx context.Context, subjectID int64, day, start string, termID, excludeID int64) (*models.Conflict, error) {
	subject, err := s.refs.Subjects.FindByID(ctx, subjectID)
	if err != nil {
		return nil, s.referenceError(err, "subject")
	}
	candidate := models.Assignment{ID: excludeID, SubjectID: subjectID, TermID: termID, Day: &day, StartTime: &start, Modality: models.ModalityInPerson}
	return s.checkSubjectConflict(ctx, nil, candidate, subject.Code)
}

// FindAllOverlaps scans scheduled assignments, optionally within one term.
func (s *AssignmentService) FindAllOverlaps(ctx context.Context, termID *int64) (*models.OverlapReport, error) {
	filter := models.AssignmentFilter{ScheduledOnly: true}
	if termID != nil {
		filter.TermID = *termID
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to scan assignments")
	}
	report := SummarizeOverlaps(termID, len(items), DetectOverlaps(items))
	s.metrics.ObserveOverlapScan(report)
	return report, nil
}

func (s *AssignmentService) prepare(ctx context.Context, input models.AssignmentInput) (*models.Assignment, *models.Subject, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	day, err := normalizeOptional(input.Day, classify.NormalizeDay)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	start, err := normalizeOptional(input.StartTime, classify.NormalizeClock)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	end, err := normalizeOptional(input.EndTime, classify.NormalizeClock)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if start != nil && end != nil && *end <= *start {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}

	subject, err := s.refs.Subjects.FindByID(ctx, input.SubjectID)
	if err != nil {
		return nil, nil, s.referenceError(err, "subject")
	}
	if _, err := s.refs.Terms.FindByID(ctx, input.TermID); err != nil {
		return nil, nil, s.referenceError(err, "term")
	}
	if input.InstructorID != nil {
		if _, err := s.refs.Instructors.FindByID(ctx, *input.InstructorID); err != nil {
			return nil, nil, s.referenceError(err, "instructor")
		}
	}
	if input.CampusID != nil {
		if _, err := s.refs.Campuses.FindByID(ctx, *input.CampusID); err != nil {
			return nil, nil, s.referenceError(err, "campus")
		}
	}

	return &models.Assignment{
		SubjectID:        input.SubjectID,
		TermID:           input.TermID,
		InstructorID:     input.InstructorID,
		CampusID:         input.CampusID,
		Modality:         input.Modality,
		Day:              day,
		StartTime:        start,
		EndTime:          end,
		ReceivesInPerson: input.ReceivesInPerson,
	}, subject, nil
}

// write runs the locked check-then-write sequence inside one read-committed transaction.
func (s *AssignmentService) write(ctx context.Context, assignment *models.Assignment, subject *models.Subject, update bool) (err error) {
	tx, err := s.tx.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if assignment.Scheduled() {
		if err = s.repo.LockSlot(ctx, tx, assignment.SubjectID, assignment.TermID); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock assignment slot")
		}
		var conflict *models.Conflict
		conflict, err = s.checkSubjectConflict(ctx, tx, *assignment, subject.Code)
		if err != nil {
			return err
		}
		if conflict != nil {
			s.metrics.IncConflictRejected()
			s.logger.Warn("assignment rejected by subject overlap",
				zap.String("subject", subject.Code),
				zap.String("day", conflict.Day),
				zap.String("start_time", conflict.StartTime),
				zap.Int64s("conflicting_ids", conflict.AssignmentIDs),
			)
			err = conflictError(conflict)
			return err
		}
	}

	if update {
		err = s.repo.Update(ctx, tx, assignment)
	} else {
		err = s.repo.Create(ctx, tx, assignment)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save assignment")
	}

	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit assignment")
	}
	return nil
}

func (s *AssignmentService) checkSubjectConflict(ctx context.Context, exec sqlx.ExtContext, candidate models.Assignment, code string) (*models.Conflict, error) {
	if !candidate.Scheduled() {
		return nil, nil
	}
	existing, err := s.repo.FindSubjectConflicts(ctx, exec, candidate.SubjectID, candidate.TermID, *candidate.Day, *candidate.StartTime, candidate.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject overlap")
	}
	return SubjectConflict(candidate, code, existing), nil
}

func (s *AssignmentService) referenceError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+entity)
}

func conflictError(conflict *models.Conflict) error {
	appErr := appErrors.Clone(appErrors.ErrSchedulingConflict, conflict.Message)
	appErr.Details = conflict
	return appErr
}

func normalizeOptional(v *string, normalize func(string) (string, error)) (*string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	out, err := normalize(*v)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SortBySlot orders assignments by term, weekday, start time and subject code.
func SortBySlot(items []models.AssignmentDetail) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.TermID != b.TermID {
			return a.TermID < b.TermID
		}
		if da, db := classify.DayIndex(deref(a.Day)), classify.DayIndex(deref(b.Day)); da != db {
			return da < db
		}
		if sa, sb := deref(a.StartTime), deref(b.StartTime); sa != sb {
			return sa < sb
		}
		return a.SubjectCode < b.SubjectCode
	})
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
