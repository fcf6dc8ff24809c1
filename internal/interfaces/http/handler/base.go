package handler

import (
	"errors"
	"mime"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/generatordok/backend/internal/domain/document"
	"github.com/generatordok/backend/internal/domain/shared"
	"github.com/generatordok/backend/internal/interfaces/http/dto"
)

// RequestIDKey is the gin context key of the request ID
const RequestIDKey = "request_id"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// docType parses the :type path parameter, answering 404 for unknown types
func (h *BaseHandler) docType(c *gin.Context) (document.DocType, bool) {
	var req dto.DocTypeRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.NotFound(c, "Unknown document type")
		return "", false
	}
	t, err := document.ParseDocType(req.Type)
	if err != nil {
		h.HandleError(c, err)
		return "", false
	}
	return t, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

var setupValidator sync.Once

// SetupValidator registers the form validations on gin's binding validator.
// It is safe to call more than once.
func SetupValidator() {
	setupValidator.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := document.RegisterValidations(v); err != nil {
				panic(err)
			}
		}
	})
}

// BindJSON binds the request body, answering 400 with field details on failure
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	SetupValidator()
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	if verr := shared.ValidationErrorFrom(err, toSnakeCase); verr != nil {
		h.ValidationError(c, validationDetails(verr))
		return false
	}

	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid request body")
	return false
}

// HandleError converts domain and validation errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		h.ValidationError(c, validationDetails(verr))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		resp := dto.NewErrorResponseWithRequestID(code, domainErr.Message, getRequestID(c))
		if code == dto.ErrCodeCaptureFailed {
			resp = resp.WithFallback(dto.FallbackPrint)
		}
		c.JSON(dto.GetHTTPStatus(code), resp)
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}

func validationDetails(verr *shared.ValidationError) []dto.ValidationDetail {
	fields := make([]string, 0, len(verr.Fields))
	for field := range verr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]dto.ValidationDetail, 0, len(fields))
	for _, field := range fields {
		details = append(details, dto.ValidationDetail{Field: field, Message: verr.Fields[field]})
	}
	return details
}

// toSnakeCase turns a Go field name like "MainText" into "main_text"
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// attachment writes a file download response
func attachment(c *gin.Context, disposition, fileName, contentType string, data []byte) {
	c.Header("Content-Disposition", contentDisposition(disposition, fileName))
	c.Data(http.StatusOK, contentType, data)
}

// contentDisposition quotes the file name, switching to the RFC 2231 form
// for non-ASCII names
func contentDisposition(disposition, fileName string) string {
	if header := mime.FormatMediaType(disposition, map[string]string{"filename": fileName}); header != "" {
		return header
	}
	return disposition
}
