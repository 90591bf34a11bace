package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/iea-horarios-api/internal/service"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
	"github.com/noah-isme/iea-horarios-api/pkg/response"
)

type exportService interface {
	ExportSchedule(ctx context.Context, termID int64, format service.ExportFormat) (*service.ExportFile, error)
}

// ExportHandler streams generated schedule files.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Schedule godoc
// @Summary Download the term schedule
// @Tags Export
// @Produce octet-stream
// @Param term_id query int true "Term ID"
// @Param format query string false "csv, pdf or xlsx" Enums(csv, pdf, xlsx)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /export/schedule [get]
func (h *ExportHandler) Schedule(c *gin.Context) {
	termID, err := queryID(c, "term_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if termID == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "term_id is required"))
		return
	}
	format, ok := service.ParseExportFormat(c.Query("format"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv, pdf or xlsx"))
		return
	}

	file, err := h.service.ExportSchedule(c.Request.Context(), termID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
