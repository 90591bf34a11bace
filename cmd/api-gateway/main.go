package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/iea-horarios-api/api/swagger"
	"github.com/noah-isme/iea-horarios-api/internal/app"
	"github.com/noah-isme/iea-horarios-api/internal/handler"
	"github.com/noah-isme/iea-horarios-api/internal/middleware"
	"github.com/noah-isme/iea-horarios-api/pkg/config"
	"github.com/noah-isme/iea-horarios-api/pkg/database"
	"github.com/noah-isme/iea-horarios-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/iea-horarios-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/iea-horarios-api/pkg/middleware/requestid"
)

// @title IEA Horarios API
// @version 1.0.0
// @description Course scheduling back office: subjects, instructors, assignments and spreadsheet imports
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Startup.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			logr.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	services, err := app.New(cfg, db, logr)
	if err != nil {
		logr.Fatal("failed to wire services", zap.Error(err))
	}

	if cfg.Startup.Seed {
		result, err := services.Seed.Seed(ctx)
		if err != nil {
			logr.Fatal("failed to seed database", zap.Error(err))
		}
		logr.Info("seed applied", zap.Int("campuses_created", result.CampusesCreated), zap.Int("terms_created", result.TermsCreated))
	}
	if !services.Auth.Enabled() {
		logr.Warn("AUTH_SHARED_PASSWORD is empty; API routes are unauthenticated")
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(services.Metrics))

	ops := handler.NewMetricsHandler(services.Metrics, db)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Auth:        handler.NewAuthHandler(services.Auth),
		Catalog:     handler.NewCatalogHandler(services.Catalog),
		Subjects:    handler.NewSubjectHandler(services.Subjects),
		Instructors: handler.NewInstructorHandler(services.Instructors),
		Students:    handler.NewStudentHandler(services.Students),
		Courses:     handler.NewCourseHandler(services.Courses),
		Enrollments: handler.NewEnrollmentHandler(services.Enrollments),
		Assignments: handler.NewAssignmentHandler(services.Assignments),
		Export:      handler.NewExportHandler(services.Export),
		Import:      handler.NewImportHandler(services.Import, cfg.Import.MaxUploadBytes),
	}, middleware.JWT(services.Auth))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
