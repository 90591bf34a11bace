package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/iea-horarios-api/internal/models"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
	"github.com/noah-isme/iea-horarios-api/pkg/response"
)

type importService interface {
	Import(ctx context.Context, kind models.ImportKind, r io.Reader, opts models.ImportOptions) (*models.ImportResult, error)
}

// ImportHandler accepts spreadsheet uploads for the ingestion pipelines.
type ImportHandler struct {
	service  importService
	maxBytes int64
}

// NewImportHandler builds ImportHandler. maxBytes <= 0 leaves uploads unbounded.
func NewImportHandler(svc importService, maxBytes int64) *ImportHandler {
	return &ImportHandler{service: svc, maxBytes: maxBytes}
}

// Import godoc
// @Summary Import a spreadsheet
// @Description Row failures are reported in the result; the file is rejected only when it cannot be read
// @Tags Import
// @Accept multipart/form-data
// @Produce json
// @Param kind path string true "Pipeline" Enums(subjects, courses, instructors, enrollments, subject-courses, meeting-links)
// @Param file formData file true "Spreadsheet (.xlsx)"
// @Param term_id formData int false "Term for enrollments; defaults to the active term"
// @Param subject_code formData string false "Fixed subject for enrollments"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /import/{kind} [post]
func (h *ImportHandler) Import(c *gin.Context) {
	kind, ok := models.ParseImportKind(c.Param("kind"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown import kind"))
		return
	}

	if h.maxBytes > 0 {
		if c.Request.ContentLength > h.maxBytes {
			response.Error(c, errUploadTooLarge(nil))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, errUploadTooLarge(err))
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "file is required"))
		return
	}

	opts := models.ImportOptions{SubjectCode: strings.TrimSpace(c.PostForm("subject_code"))}
	if opts.TermID, err = parseOptionalID(c.DefaultPostForm("term_id", c.Query("term_id")), "term_id"); err != nil {
		response.Error(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrMalformedUpload.Code, appErrors.ErrMalformedUpload.Status, appErrors.ErrMalformedUpload.Message))
		return
	}
	defer file.Close()

	result, err := h.service.Import(c.Request.Context(), kind, file, opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func errUploadTooLarge(err error) error {
	return appErrors.Wrap(err, appErrors.ErrMalformedUpload.Code, http.StatusRequestEntityTooLarge, "uploaded file is too large")
}
