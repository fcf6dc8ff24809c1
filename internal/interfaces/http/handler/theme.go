package handler

import (
	"github.com/gin-gonic/gin"

	appdoc "github.com/generatordok/backend/internal/application/document"
)

// ThemeHandler serves the stamp and background editors
type ThemeHandler struct {
	BaseHandler
	service *appdoc.Service
}

// NewThemeHandler creates a new ThemeHandler
func NewThemeHandler(service *appdoc.Service) *ThemeHandler {
	return &ThemeHandler{service: service}
}

// GetStamp returns the stamp of a document type, or the editor defaults
func (h *ThemeHandler) GetStamp(c *gin.Context) {
	t, ok := h.docType(c)
	if !ok {
		return
	}
	h.Success(c, h.service.GetStamp(c.Request.Context(), t))
}

// ApplyStamp godoc
//
//	@Summary	Apply a stamp to a document type
//	@Tags		stamps
//	@Accept		json
//	@Produce	json
//	@Param		type	path		string					true	"receipt, invoice or note"
//	@Param		request	body		appdoc.StampRequest		true	"Stamp fields"
//	@Success	200		{object}	dto.Response{data=appdoc.StampResponse}
//	@Failure	400		{object}	dto.Response
//	@Router		/documents/{type}/stamp [put]
func (h *ThemeHandler) ApplyStamp(c *gin.Context) {
	t, ok := h.docType(c)
	if !ok {
		return
	}
	var req appdoc.StampRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.service.ApplyStamp(c.Request.Context(), t, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ClearStamp removes the stamp of a document type
func (h *ThemeHandler) ClearStamp(c *gin.Context) {
	t, ok := h.docType(c)
	if !ok {
		return
	}
	result, err := h.service.ClearStamp(c.Request.Context(), t)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// StampTemplates lists the stamp templates with sample renderings
func (h *ThemeHandler) StampTemplates(c *gin.Context) {
	h.Success(c, h.service.StampTemplates())
}

// StampPreview renders stamp fields without applying them
func (h *ThemeHandler) StampPreview(c *gin.Context) {
	var req appdoc.StampRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.service.StampPreview(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ApplyBackground godoc
//
//	@Summary	Set the background theme of a document type
//	@Tags		backgrounds
//	@Accept		json
//	@Produce	json
//	@Param		type	path		string						true	"receipt, invoice or note"
//	@Param		request	body		appdoc.BackgroundRequest	true	"Background selector"
//	@Success	200		{object}	dto.Response{data=appdoc.PreviewResponse}
//	@Failure	400		{object}	dto.Response
//	@Router		/documents/{type}/background [put]
func (h *ThemeHandler) ApplyBackground(c *gin.Context) {
	t, ok := h.docType(c)
	if !ok {
		return
	}
	var req appdoc.BackgroundRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.service.ApplyBackground(c.Request.Context(), t, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ClearBackground removes the background of a document type
func (h *ThemeHandler) ClearBackground(c *gin.Context) {
	t, ok := h.docType(c)
	if !ok {
		return
	}
	result, err := h.service.ClearBackground(c.Request.Context(), t)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Backgrounds lists the background themes
func (h *ThemeHandler) Backgrounds(c *gin.Context) {
	h.Success(c, h.service.Backgrounds())
}
