package dto

import (
	"net/http"

	"github.com/generatordok/backend/internal/domain/shared"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeValidation is used when form fields are missing or malformed
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeUnknownThemeSelector is used for a stamp or background outside the catalog
	ErrCodeUnknownThemeSelector = "ERR_UNKNOWN_THEME_SELECTOR"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a document type or stored file is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Export error codes
const (
	// ErrCodeEmptySurface is used when exporting a document that was never generated
	ErrCodeEmptySurface = "ERR_EMPTY_SURFACE"
	// ErrCodeCaptureFailed is used when the raster capture or PDF assembly failed
	ErrCodeCaptureFailed = "ERR_CAPTURE_FAILED"
	// ErrCodeExportInProgress is used when the same document type is already exporting
	ErrCodeExportInProgress = "ERR_EXPORT_IN_PROGRESS"
)

// FallbackPrint is the fallback suggested when capture fails
const FallbackPrint = "print"

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeValidation:           http.StatusBadRequest,
	ErrCodeBadRequest:           http.StatusBadRequest,
	ErrCodeInvalidInput:         http.StatusBadRequest,
	ErrCodeInvalidJSON:          http.StatusBadRequest,
	ErrCodeUnknownThemeSelector: http.StatusBadRequest,
	ErrCodeRequestTooLarge:      http.StatusRequestEntityTooLarge,

	// Resource errors
	ErrCodeNotFound: http.StatusNotFound,
	ErrCodeConflict: http.StatusConflict,

	// Export errors
	ErrCodeEmptySurface:     http.StatusUnprocessableEntity,
	ErrCodeCaptureFailed:    http.StatusBadGateway,
	ErrCodeExportInProgress: http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	shared.CodeValidation:           ErrCodeValidation,
	shared.CodeEmptySurface:         ErrCodeEmptySurface,
	shared.CodeCaptureFailed:        ErrCodeCaptureFailed,
	shared.CodeExportInProgress:     ErrCodeExportInProgress,
	shared.CodeUnknownThemeSelector: ErrCodeUnknownThemeSelector,
	shared.CodeNotFound:             ErrCodeNotFound,
	shared.CodeInvalidInput:         ErrCodeInvalidInput,
	"INTERNAL_ERROR":                ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
