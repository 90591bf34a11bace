// Package app assembles repositories and services shared by the API server and the admin CLI.
package app

import (
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/iea-horarios-api/internal/repository"
	"github.com/noah-isme/iea-horarios-api/internal/service"
	"github.com/noah-isme/iea-horarios-api/pkg/config"
)

// JWTIssuer is stamped on every access token.
const JWTIssuer = "iea-horarios-api"

// Services exposes the wired domain services.
type Services struct {
	Metrics     *service.MetricsService
	Auth        *service.AuthService
	Catalog     *service.CatalogService
	Subjects    *service.SubjectService
	Instructors *service.InstructorService
	Students    *service.StudentService
	Courses     *service.CourseService
	Enrollments *service.EnrollmentService
	Assignments *service.AssignmentService
	Export      *service.ExportService
	Import      *service.ImportService
	Seed        *service.SeedService
}

// New wires every service against db.
func New(cfg *config.Config, db *sqlx.DB, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := validator.New()
	metrics := service.NewMetricsService()

	campuses := repository.NewCampusRepository(db)
	terms := repository.NewTermRepository(db)
	subjects := repository.NewSubjectRepository(db)
	instructors := repository.NewInstructorRepository(db)
	students := repository.NewStudentRepository(db)
	courses := repository.NewCourseRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	assignments := repository.NewAssignmentRepository(db)

	auth, err := service.NewAuthService(validate, logger, service.AuthConfig{
		SharedPassword:    cfg.Auth.SharedPassword,
		AccessTokenSecret: cfg.Auth.JWTSecret,
		AccessTokenExpiry: cfg.Auth.JWTExpiration,
		Issuer:            JWTIssuer,
	})
	if err != nil {
		return nil, err
	}

	assignmentSvc := service.NewAssignmentService(assignments, service.AssignmentReferences{
		Subjects:    subjects,
		Terms:       terms,
		Instructors: instructors,
		Campuses:    campuses,
	}, db, metrics, validate, logger)

	return &Services{
		Metrics:     metrics,
		Auth:        auth,
		Catalog:     service.NewCatalogService(campuses, terms, db, validate, logger),
		Subjects:    service.NewSubjectService(subjects, assignments, validate, logger),
		Instructors: service.NewInstructorService(instructors, assignments, db, validate, logger),
		Students:    service.NewStudentService(students, validate, logger),
		Courses:     service.NewCourseService(courses, campuses, validate, logger),
		Enrollments: service.NewEnrollmentService(enrollments, service.EnrollmentReferences{
			Students: students,
			Subjects: subjects,
			Terms:    terms,
		}, validate, logger),
		Assignments: assignmentSvc,
		Export:      service.NewExportService(assignmentSvc, terms, logger),
		Import: service.NewImportService(service.ImportStores{
			Subjects:    subjects,
			Campuses:    campuses,
			Courses:     courses,
			Instructors: instructors,
			Students:    students,
			Enrollments: enrollments,
			Terms:       terms,
		}, metrics, cfg.Import.MaxErrors, logger),
		Seed: service.NewSeedService(campuses, terms, db, logger),
	}, nil
}
