package main

import (
	"github.com/spf13/cobra"

	"github.com/noah-isme/iea-horarios-api/pkg/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			if err := database.Migrate(cmd.Context(), e.db); err != nil {
				return err
			}
			version, err := database.MigrationVersion(cmd.Context(), e.db)
			if err != nil {
				return err
			}
			return writeJSON(map[string]int64{"version": version})
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert default campuses and terms when missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			services, err := e.services()
			if err != nil {
				return err
			}
			result, err := services.Seed.Seed(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(result)
		},
	}
}
