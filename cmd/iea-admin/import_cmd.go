package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/iea-horarios-api/internal/models"
)

func kindNames() string {
	names := make([]string, len(models.ImportKinds))
	for i, k := range models.ImportKinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func newImportCmd() *cobra.Command {
	var (
		kind        string
		file        string
		termID      int64
		subjectCode string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Run a spreadsheet import pipeline against a local workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, ok := models.ParseImportKind(kind)
			if !ok {
				return fmt.Errorf("invalid --kind %q (want one of: %s)", kind, kindNames())
			}
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}
			defer f.Close()

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			services, err := e.services()
			if err != nil {
				return err
			}
			result, err := services.Import.Import(cmd.Context(), k, f, models.ImportOptions{TermID: termID, SubjectCode: subjectCode})
			if err != nil {
				return err
			}
			if err := writeJSON(result); err != nil {
				return err
			}
			if result.ErrorCount > 0 {
				return fmt.Errorf("%w: %d", errRowErrors, result.ErrorCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Pipeline: "+kindNames())
	cmd.Flags().StringVar(&file, "file", "", "Path to the .xlsx workbook")
	cmd.Flags().Int64Var(&termID, "term", 0, "Term ID for enrollments (defaults to the active term)")
	cmd.Flags().StringVar(&subjectCode, "subject", "", "Fixed subject code for enrollments")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newOverlapsCmd() *cobra.Command {
	var termID int64

	cmd := &cobra.Command{
		Use:   "overlaps",
		Short: "Report overlapping assignments",
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
			var term *int64
			if termID > 0 {
				term = &termID
			}
			report, err := services.Assignments.FindAllOverlaps(cmd.Context(), term)
			if err != nil {
				return err
			}
			return writeJSON(report)
		},
	}

	cmd.Flags().Int64Var(&termID, "term", 0, "Restrict the scan to one term")
	return cmd
}
