package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/iea-horarios-api/internal/models"
)

type importServiceMock struct {
	kind    models.ImportKind
	opts    models.ImportOptions
	payload []byte
	calls   int
}

func (m *importServiceMock) Import(ctx context.Context, kind models.ImportKind, r io.Reader, opts models.ImportOptions) (*models.ImportResult, error) {
	m.calls++
	m.kind = kind
	m.opts = opts
	m.payload, _ = io.ReadAll(r)
	result := models.NewImportResult(kind, 5)
	result.Created = 2
	result.AddError(3, "missing national ID")
	return result, nil
}

func multipartContext(t *testing.T, kind string, fields map[string]string, file []byte) (*gin.Context, *bytes.Buffer) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		part, err := mw.CreateFormFile("file", "data.xlsx")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	c, w := newContext(http.MethodPost, "/import/"+kind, &body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	c.Params = gin.Params{{Key: "kind", Value: kind}}
	return c, w.Body
}

func TestImportHandlerPassesOptions(t *testing.T) {
	svc := &importServiceMock{}
	c, _ := multipartContext(t, "enrollments", map[string]string{"term_id": "8", "subject_code": " c.12 "}, []byte("sheet"))
	w := c.Writer

	NewImportHandler(svc, 1<<20).Import(c)

	require.Equal(t, http.StatusOK, w.Status())
	assert.Equal(t, models.ImportEnrollments, svc.kind)
	assert.Equal(t, models.ImportOptions{TermID: 8, SubjectCode: "c.12"}, svc.opts)
	assert.Equal(t, []byte("sheet"), svc.payload)
}

func TestImportHandlerReturnsRowErrors(t *testing.T) {
	svc := &importServiceMock{}
	c, body := multipartContext(t, "instructors", nil, []byte("sheet"))

	NewImportHandler(svc, 0).Import(c)

	assert.Contains(t, body.String(), `"error_count":1`)
	assert.Contains(t, body.String(), `"row":3`)
}

func TestImportHandlerUnknownKind(t *testing.T) {
	svc := &importServiceMock{}
	c, _ := multipartContext(t, "teachers", nil, []byte("sheet"))

	NewImportHandler(svc, 0).Import(c)

	assert.Equal(t, http.StatusNotFound, c.Writer.Status())
	assert.Zero(t, svc.calls)
}

func TestImportHandlerMissingFile(t *testing.T) {
	svc := &importServiceMock{}
	c, _ := multipartContext(t, "subjects", map[string]string{"note": "x"}, nil)

	NewImportHandler(svc, 0).Import(c)

	assert.Equal(t, http.StatusBadRequest, c.Writer.Status())
	assert.Zero(t, svc.calls)
}

func TestImportHandlerRejectsBadTerm(t *testing.T) {
	svc := &importServiceMock{}
	c, _ := multipartContext(t, "enrollments", map[string]string{"term_id": "-1"}, []byte("sheet"))

	NewImportHandler(svc, 0).Import(c)

	assert.Equal(t, http.StatusBadRequest, c.Writer.Status())
	assert.Zero(t, svc.calls)
}

func TestImportHandlerUploadTooLarge(t *testing.T) {
	svc := &importServiceMock{}
	c, _ := multipartContext(t, "subjects", nil, bytes.Repeat([]byte("x"), 4096))

	NewImportHandler(svc, 512).Import(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, c.Writer.Status())
	assert.Zero(t, svc.calls)
}
