package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/iea-horarios-api/internal/classify"
	"github.com/noah-isme/iea-horarios-api/internal/models"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
	"github.com/noah-isme/iea-horarios-api/pkg/export"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportPDF  ExportFormat = "pdf"
	ExportXLSX ExportFormat = "xlsx"
)

var exportContentTypes = map[ExportFormat]string{
	ExportCSV:  "text/csv; charset=utf-8",
	ExportPDF:  "application/pdf",
	ExportXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// Schedule export columns.
var scheduleHeaders = []string{"Día", "Inicio", "Fin", "Código", "Cátedra", "Docente", "Sede", "Modalidad", "Link"}

var modalityLabels = map[models.Modality]string{
	models.ModalityVirtualMorning: "Virtual mañana",
	models.ModalityVirtualNight:   "Virtual noche",
	models.ModalityInPerson:       "Presencial",
	models.ModalityAsynchronous:   "Asincrónica",
}

type scheduleSource interface {
	Schedule(ctx context.Context, termID int64) ([]models.AssignmentDetail, error)
}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the term schedule as CSV, PDF or XLSX.
type ExportService struct {
	schedule  scheduleSource
	terms     termFinder
	renderers map[ExportFormat]renderer
	logger    *zap.Logger
}

// NewExportService wires the schedule source to the exporters.
func NewExportService(schedule scheduleSource, terms termFinder, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		schedule: schedule,
		terms:    terms,
		renderers: map[ExportFormat]renderer{
			ExportCSV:  export.NewCSVExporter(),
			ExportPDF:  export.NewPDFExporter(),
			ExportXLSX: export.NewXLSXExporter(),
		},
		logger: logger,
	}
}

// ParseExportFormat validates a format query value; empty means CSV.
func ParseExportFormat(v string) (ExportFormat, bool) {
	f := ExportFormat(strings.ToLower(strings.TrimSpace(v)))
	if f == "" {
		return ExportCSV, true
	}
	_, ok := exportContentTypes[f]
	return f, ok
}

// ExportSchedule renders the scheduled assignments of a term.
func (s *ExportService) ExportSchedule(ctx context.Context, termID int64, format ExportFormat) (*ExportFile, error) {
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	term, err := s.terms.FindByID(ctx, termID)
	if err != nil {
		return nil, notFoundOr(err, "term", "load")
	}
	items, err := s.schedule.Schedule(ctx, termID)
	if err != nil {
		return nil, err
	}

	payload, err := r.Render(ScheduleDataset(term.Name, items))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule")
	}
	s.logger.Info("schedule exported", zap.Int64("term_id", termID), zap.String("format", string(format)), zap.Int("rows", len(items)))
	return &ExportFile{
		Filename:    fmt.Sprintf("horarios-%s.%s", slug(term.Name), format),
		ContentType: exportContentTypes[format],
		Payload:     payload,
	}, nil
}

// ScheduleDataset flattens assignments into export rows.
func ScheduleDataset(termName string, items []models.AssignmentDetail) export.Dataset {
	data := export.Dataset{Title: "Horarios " + termName, Headers: scheduleHeaders}
	for _, item := range items {
		data.Rows = append(data.Rows, map[string]string{
			"Día":       deref(item.Day),
			"Inicio":    deref(item.StartTime),
			"Fin":       deref(item.EndTime),
			"Código":    item.SubjectCode,
			"Cátedra":   item.SubjectName,
			"Docente":   deref(item.InstructorName),
			"Sede":      deref(item.CampusName),
			"Modalidad": modalityLabels[item.Modality],
			"Link":      deref(item.MeetingLink),
		})
	}
	return data
}

func slug(name string) string {
	fields := strings.FieldsFunc(classify.Fold(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	if len(fields) == 0 {
		return "schedule"
	}
	return strings.Join(fields, "-")
}
