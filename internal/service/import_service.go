package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/iea-horarios-api/internal/classify"
	"github.com/noah-isme/iea-horarios-api/internal/models"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
	"github.com/noah-isme/iea-horarios-api/pkg/spreadsheet"
)

type importSubjectStore interface {
	FindByCode(ctx context.Context, code string) (*models.Subject, error)
	Create(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error
	Update(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error
}

type importCampusStore interface {
	List(ctx context.Context) ([]models.Campus, error)
	Create(ctx context.Context, exec sqlx.ExtContext, campus *models.Campus) error
}

type importCourseStore interface {
	Names(ctx context.Context) ([]models.Course, error)
	Create(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error
	LinkExists(ctx context.Context, subjectID, courseID int64, shift *models.Shift) (bool, error)
	CreateLink(ctx context.Context, exec sqlx.ExtContext, link *models.SubjectCourse) error
}

type importInstructorStore interface {
	FindByNationalID(ctx context.Context, nationalID string) (*models.Instructor, error)
	Create(ctx context.Context, exec sqlx.ExtContext, instructor *models.Instructor) error
	Update(ctx context.Context, exec sqlx.ExtContext, instructor *models.Instructor) error
	AddCampus(ctx context.Context, exec sqlx.ExtContext, instructorID, campusID int64) error
}

type importStudentStore interface {
	FindByNationalID(ctx context.Context, nationalID string) (*models.Student, error)
	Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error
}

type importEnrollmentStore interface {
	Exists(ctx context.Context, studentID, subjectID, termID int64) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, enrollment *models.Enrollment) error
}

type importTermStore interface {
	FindByID(ctx context.Context, id int64) (*models.Term, error)
	FindActive(ctx context.Context) (*models.Term, error)
}

// ImportStores groups the persistence collaborators of the import pipelines.
type ImportStores struct {
	Subjects    importSubjectStore
	Campuses    importCampusStore
	Courses     importCourseStore
	Instructors importInstructorStore
	Students    importStudentStore
	Enrollments importEnrollmentStore
	Terms       importTermStore
}

// Detail counters reported in ImportResult.Details.
const (
	detailStudentsCreated = "students_created"
	detailCampusesCreated = "campuses_created"
	detailCoursesCreated  = "courses_created"
)

// sheetKeywords picks the worksheet for each kind by folded name.
var sheetKeywords = map[models.ImportKind][]string{
	models.ImportSubjects:       {"catedra"},
	models.ImportCourses:        {"curso"},
	models.ImportInstructors:    {"docente"},
	models.ImportEnrollments:    {"inscrip", "alumno"},
	models.ImportSubjectCourses: {"oferta", "curso"},
	models.ImportMeetingLinks:   {"link", "zoom"},
}

// courseDenylist holds folded substrings; a course name containing any of them is omitted.
var courseDenylist = []string{"no disponible", "baja", "test"}

func deniedCourse(name string) bool {
	folded := classify.Fold(name)
	for _, marker := range courseDenylist {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}

// ImportService runs the best-effort spreadsheet ingestion pipelines.
type ImportService struct {
	stores    ImportStores
	metrics   *MetricsService
	maxErrors int
	logger    *zap.Logger
}

// NewImportService instantiates ImportService. maxErrors bounds the row errors kept per result.
func NewImportService(stores ImportStores, metrics *MetricsService, maxErrors int, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxErrors <= 0 {
		maxErrors = 20
	}
	return &ImportService{stores: stores, metrics: metrics, maxErrors: maxErrors, logger: logger}
}

// Import parses an uploaded workbook and runs the pipeline for kind.
func (s *ImportService) Import(ctx context.Context, kind models.ImportKind, r io.Reader, opts models.ImportOptions) (*models.ImportResult, error) {
	if _, ok := sheetKeywords[kind]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown import kind %q", kind))
	}
	sheet, err := spreadsheet.ReadSheet(r, sheetMatcher(kind))
	if err != nil {
		if errors.Is(err, spreadsheet.ErrMalformed) {
			return nil, appErrors.Wrap(err, appErrors.ErrMalformedUpload.Code, appErrors.ErrMalformedUpload.Status, appErrors.ErrMalformedUpload.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read workbook")
	}
	return s.ImportSheet(ctx, kind, sheet, opts)
}

// ImportSheet runs the pipeline for kind over an already parsed sheet.
func (s *ImportService) ImportSheet(ctx context.Context, kind models.ImportKind, sheet *spreadsheet.Sheet, opts models.ImportOptions) (*models.ImportResult, error) {
	started := time.Now()
	run := &importRun{svc: s, result: models.NewImportResult(kind, s.maxErrors)}
	run.result.Sheet = sheet.Name

	var err error
	switch kind {
	case models.ImportSubjects:
		err = run.importSubjects(ctx, sheet)
	case models.ImportCourses:
		err = run.importCourses(ctx, sheet)
	case models.ImportInstructors:
		err = run.importInstructors(ctx, sheet)
	case models.ImportEnrollments:
		err = run.importEnrollments(ctx, sheet, opts)
	case models.ImportSubjectCourses:
		err = run.importSubjectCourses(ctx, sheet)
	case models.ImportMeetingLinks:
		err = run.importMeetingLinks(ctx, sheet)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown import kind %q", kind))
	}
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		s.logger.Error("import aborted", zap.String("kind", string(kind)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "import aborted by a storage failure")
	}

	result := run.result
	s.metrics.ObserveImport(result, time.Since(started))
	s.logger.Info("import finished",
		zap.String("kind", string(kind)),
		zap.String("sheet", sheet.Name),
		zap.Int("rows", result.Rows),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("omitted", result.Omitted),
		zap.Int("errors", result.ErrorCount),
	)
	return result, nil
}

func sheetMatcher(kind models.ImportKind) func(string) bool {
	keywords := sheetKeywords[kind]
	return func(name string) bool {
		folded := classify.Fold(name)
		for _, k := range keywords {
			if strings.Contains(folded, k) {
				return true
			}
		}
		return false
	}
}

// importRun carries the tally and lazily loaded lookup tables of one pipeline execution.
type importRun struct {
	svc      *ImportService
	result   *models.ImportResult
	campuses []models.Campus
	courses  []models.Course
	loaded   struct{ campuses, courses bool }
}

func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func (r *importRun) loadCampuses(ctx context.Context) error {
	if r.loaded.campuses {
		return nil
	}
	campuses, err := r.svc.stores.Campuses.List(ctx)
	if err != nil {
		return err
	}
	r.campuses, r.loaded.campuses = campuses, true
	return nil
}

func (r *importRun) loadCourses(ctx context.Context) error {
	if r.loaded.courses {
		return nil
	}
	courses, err := r.svc.stores.Courses.Names(ctx)
	if err != nil {
		return err
	}
	r.courses, r.loaded.courses = courses, true
	return nil
}

func (r *importRun) campusNamed(name string) *models.Campus {
	for i := range r.campuses {
		if classify.SameName(r.campuses[i].Name, name) {
			return &r.campuses[i]
		}
	}
	return nil
}

// resolveCampus matches hint against stored campus names, then against the campus detector. Detected
// campuses are created when missing; a free-text hint is created only when createHint is set, the hint
// has at least three characters and is not numeric.
func (r *importRun) resolveCampus(ctx context.Context, hint string, createHint bool) (*int64, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return nil, nil
	}
	if err := r.loadCampuses(ctx); err != nil {
		return nil, err
	}
	if c := r.campusNamed(hint); c != nil {
		return &c.ID, nil
	}

	name := ""
	if detected, ok := classify.DetectCampus(hint); ok {
		if c := r.campusNamed(detected); c != nil {
			return &c.ID, nil
		}
		name = detected
	} else if createHint && len([]rune(hint)) >= 3 && !classify.IsNumeric(hint) {
		name = classify.TitleCase(hint)
	}
	if name == "" {
		return nil, nil
	}

	campus := &models.Campus{Name: name, Color: models.DefaultCampusColor}
	if err := r.svc.stores.Campuses.Create(ctx, nil, campus); err != nil {
		return nil, err
	}
	r.campuses = append(r.campuses, *campus)
	r.result.AddDetail(detailCampusesCreated)
	return &campus.ID, nil
}

func (r *importRun) courseNamed(name string) *models.Course {
	for i := range r.courses {
		if classify.SameName(r.courses[i].Name, name) {
			return &r.courses[i]
		}
	}
	return nil
}

func (r *importRun) ensureCourse(ctx context.Context, name string, campusID *int64) (*models.Course, bool, error) {
	if err := r.loadCourses(ctx); err != nil {
		return nil, false, err
	}
	if c := r.courseNamed(name); c != nil {
		return c, false, nil
	}
	course := &models.Course{Name: name, CampusID: campusID}
	if err := r.svc.stores.Courses.Create(ctx, nil, course); err != nil {
		return nil, false, err
	}
	r.courses = append(r.courses, *course)
	return course, true, nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
