package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appdoc "github.com/generatordok/backend/internal/application/document"
	"github.com/generatordok/backend/internal/domain/document"
	infra "github.com/generatordok/backend/internal/infrastructure/printing"
)

// DocumentHandler serves document generation and preview
type DocumentHandler struct {
	BaseHandler
	service *appdoc.Service
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(service *appdoc.Service) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// ListTypes godoc
//
//	@Summary	List document types
//	@Tags		documents
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=[]appdoc.DocumentTypeResponse}
//	@Router		/documents/types [get]
func (h *DocumentHandler) ListTypes(c *gin.Context) {
	h.Success(c, h.service.DocumentTypes())
}

// Defaults godoc
//
//	@Summary	Form defaults: today, due date, payment terms, stamp editor
//	@Tags		documents
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=appdoc.DefaultsResponse}
//	@Router		/documents/defaults [get]
func (h *DocumentHandler) Defaults(c *gin.Context) {
	h.Success(c, h.service.Defaults())
}

// Generate godoc
//
//	@Summary		Generate a document preview from form fields
//	@Description	The body is a receipt, invoice or note form depending on :type
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			type	path		string	true	"receipt, invoice or note"
//	@Success		200		{object}	dto.Response{data=appdoc.PreviewResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Router			/documents/{type}/generate [post]
func (h *DocumentHandler) Generate(c *gin.Context) {
	t, ok := h.docType(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var (
		result *appdoc.PreviewResponse
		err    error
	)
	switch t {
	case document.DocTypeReceipt:
		var form document.ReceiptForm
		if !h.BindJSON(c, &form) {
			return
		}
		result, err = h.service.GenerateReceipt(ctx, form)
	case document.DocTypeInvoice:
		var form document.InvoiceForm
		if !h.BindJSON(c, &form) {
			return
		}
		result, err = h.service.GenerateInvoice(ctx, form)
	case document.DocTypeNote:
		var form document.NoteForm
		if !h.BindJSON(c, &form) {
			return
		}
		result, err = h.service.GenerateNote(ctx, form)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Preview godoc
//
//	@Summary	Current preview surface of a document type
//	@Tags		documents
//	@Produce	json
//	@Param		type	path		string	true	"receipt, invoice or note"
//	@Success	200		{object}	dto.Response{data=appdoc.PreviewResponse}
//	@Router		/documents/{type}/preview [get]
func (h *DocumentHandler) Preview(c *gin.Context) {
	t, ok := h.docType(c)
	if !ok {
		return
	}
	result, err := h.service.Preview(c.Request.Context(), t)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Page godoc
//
//	@Summary		Current surface as a standalone HTML page
//	@Description	mode is screen (default), capture or print
//	@Tags			documents
//	@Produce		html
//	@Param			type	path	string	true	"receipt, invoice or note"
//	@Param			mode	query	string	false	"screen, capture or print"
//	@Router			/documents/{type}/page [get]
func (h *DocumentHandler) Page(c *gin.Context) {
	t, ok := h.docType(c)
	if !ok {
		return
	}

	var mode infra.StyleMode
	switch strings.ToLower(c.DefaultQuery("mode", "screen")) {
	case "screen":
		mode = infra.StyleScreen
	case "capture":
		mode = infra.StyleCapture
	case "print":
		mode = infra.StylePrint
	default:
		h.BadRequest(c, "mode must be screen, capture or print")
		return
	}

	page, err := h.service.Page(c.Request.Context(), t, mode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// ItemsXLSX godoc
//
//	@Summary	Line items and totals of the last generated document as XLSX
//	@Tags		documents
//	@Produce	application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Param		type	path	string	true	"receipt or invoice"
//	@Failure	400		{object}	dto.Response
//	@Failure	422		{object}	dto.Response
//	@Router		/documents/{type}/items.xlsx [get]
func (h *DocumentHandler) ItemsXLSX(c *gin.Context) {
	t, ok := h.docType(c)
	if !ok {
		return
	}
	file, err := h.service.ItemsXLSX(c.Request.Context(), t)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	attachment(c, "attachment", file.FileName, file.ContentType, file.Data)
}
