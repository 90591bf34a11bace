package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/iea-horarios-api/internal/app"
	"github.com/noah-isme/iea-horarios-api/pkg/config"
	"github.com/noah-isme/iea-horarios-api/pkg/database"
	"github.com/noah-isme/iea-horarios-api/pkg/logger"
)

// Exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitRowErrors = 2
)

// errRowErrors marks a completed run that reported per-row failures.
var errRowErrors = errors.New("completed with row errors")

// env carries the process-wide collaborators opened by the root command.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
}

func (e *env) close() {
	if e.db != nil {
		_ = e.db.Close()
	}
	if e.logger != nil {
		_ = e.logger.Sync()
	}
}

func (e *env) services() (*app.Services, error) {
	return app.New(e.cfg, e.db, e.logger)
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		_ = logr.Sync()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &env{cfg: cfg, logger: logr, db: db}, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "iea-admin",
		Short:         "Administrative tasks for the IEA scheduling database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newMigrateCmd(), newSeedCmd(), newImportCmd(), newOverlapsCmd())
	return cmd
}

func execute() int {
	err := newRootCmd().Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errRowErrors):
		fmt.Fprintln(os.Stderr, err)
		return exitRowErrors
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitFailure
	}
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
