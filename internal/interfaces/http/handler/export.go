package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	appexport "github.com/generatordok/backend/internal/application/export"
	"github.com/generatordok/backend/internal/infrastructure/printing"
	"github.com/generatordok/backend/internal/infrastructure/spreadsheet"
)

// Export response headers
const (
	HeaderExportID  = "X-Export-ID"
	HeaderExportURL = "X-Export-URL"
)

// ExportHandler serves PDF export, the print fallback and stored downloads
type ExportHandler struct {
	BaseHandler
	pipeline *appexport.Pipeline
	storage  printing.PDFStorage
}

// Presigner hands out direct, time-limited links to stored objects
type Presigner interface {
	PresignDownloadURL(ctx context.Context, key string) (string, time.Time, error)
}

// NewExportHandler creates a new ExportHandler. storage may be nil, in which
// case downloads of stored exports answer 404.
func NewExportHandler(pipeline *appexport.Pipeline, storage printing.PDFStorage) *ExportHandler {
	return &ExportHandler{pipeline: pipeline, storage: storage}
}

// Export godoc
//
//	@Summary		Export the current surface as a one-page PDF
//	@Description	On capture failure the error carries fallback "print"
//	@Tags			export
//	@Produce		application/pdf
//	@Param			type	path	string	true	"receipt, invoice or note"
//	@Failure		409		{object}	dto.Response	"export already running"
//	@Failure		422		{object}	dto.Response	"nothing generated yet"
//	@Failure		502		{object}	dto.Response	"capture failed"
//	@Router			/documents/{type}/export [post]
func (h *ExportHandler) Export(c *gin.Context) {
	t, ok := h.docType(c)
	if !ok {
		return
	}

	result, err := h.pipeline.Export(c.Request.Context(), t)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Outcome != appexport.OutcomeSuccess {
		h.HandleError(c, result.Err)
		return
	}

	file := result.File
	c.Header(HeaderExportID, file.ExportID.String())
	if file.URL != "" {
		c.Header(HeaderExportURL, file.URL)
	}
	attachment(c, "attachment", file.FileName, file.ContentType, file.Data)
}

// Print godoc
//
//	@Summary	Render the current surface through the native print path
//	@Tags		export
//	@Produce	application/pdf
//	@Param		type	path	string	true	"receipt, invoice or note"
//	@Failure	422		{object}	dto.Response	"nothing generated yet"
//	@Router		/documents/{type}/print [post]
func (h *ExportHandler) Print(c *gin.Context) {
	t, ok := h.docType(c)
	if !ok {
		return
	}

	file, err := h.pipeline.Print(c.Request.Context(), t)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	attachment(c, "inline", file.FileName, file.ContentType, file.Data)
}

// State returns the export control state of a document type
func (h *ExportHandler) State(c *gin.Context) {
	t, ok := h.docType(c)
	if !ok {
		return
	}
	h.Success(c, h.pipeline.State(t))
}

// Download godoc
//
//	@Summary	Download a stored export
//	@Tags		export
//	@Produce	application/pdf
//	@Param		path		path	string	true	"Storage path"
//	@Param		redirect	query	bool	false	"Redirect to a presigned link when the storage supports it"
//	@Success	302
//	@Failure	404		{object}	dto.Response
//	@Router		/exports/{path} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	if h.storage == nil {
		h.NotFound(c, "Export storage is disabled")
		return
	}

	key := strings.TrimPrefix(c.Param("path"), "/")
	if key == "" {
		h.NotFound(c, "Export not found")
		return
	}

	if presigner, ok := h.storage.(Presigner); ok && c.Query("redirect") == "true" {
		url, expiresAt, err := presigner.PresignDownloadURL(c.Request.Context(), key)
		if err != nil {
			if isMissing(err) {
				h.NotFound(c, "Export not found")
				return
			}
			_ = c.Error(err)
			h.InternalError(c, "Failed to sign export link")
			return
		}
		c.Header("Expires", expiresAt.UTC().Format(http.TimeFormat))
		c.Redirect(http.StatusFound, url)
		return
	}

	rc, err := h.storage.Get(c.Request.Context(), key)
	if err != nil {
		if isMissing(err) {
			h.NotFound(c, "Export not found")
			return
		}
		_ = c.Error(err)
		h.InternalError(c, "Failed to read export")
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		_ = c.Error(err)
		h.InternalError(c, "Failed to read export")
		return
	}

	name := path.Base(key)
	attachment(c, "attachment", name, contentTypeOf(name), data)
}

func isMissing(err error) bool {
	var renderErr *printing.RenderError
	return errors.As(err, &renderErr) &&
		(renderErr.Code == printing.ErrCodeFileNotFound || renderErr.Code == printing.ErrCodeInvalidPath)
}

func contentTypeOf(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		return appexport.ContentTypePDF
	case ".xlsx":
		return spreadsheet.ContentType
	default:
		return "application/octet-stream"
	}
}
