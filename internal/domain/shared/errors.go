package shared

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped copies compare equal to the sentinels below.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared by the document domain and the export pipeline
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeEmptySurface         = "EMPTY_SURFACE"
	CodeCaptureFailed        = "CAPTURE_FAILED"
	CodeExportInProgress     = "EXPORT_IN_PROGRESS"
	CodeUnknownThemeSelector = "UNKNOWN_THEME_SELECTOR"
	CodeNotFound             = "NOT_FOUND"
	CodeInvalidInput         = "INVALID_INPUT"
)

// Common domain errors
var (
	ErrNotFound             = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput         = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrEmptySurface         = NewDomainError(CodeEmptySurface, "Silakan buat pratinjau terlebih dahulu!")
	ErrCaptureFailed        = NewDomainError(CodeCaptureFailed, "Gagal membuat PDF. Apakah Anda ingin menggunakan fungsi cetak browser sebagai gantinya?")
	ErrExportInProgress     = NewDomainError(CodeExportInProgress, "Dokumen sedang diekspor")
	ErrUnknownThemeSelector = NewDomainError(CodeUnknownThemeSelector, "Unknown theme selector")
)

// ValidationError reports missing or malformed form fields.
// Fields maps the field name to a short reason.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates an empty validation error
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a failing field. The first reason for a field wins.
func (e *ValidationError) Add(field, reason string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = reason
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Err returns nil when no field failed, so callers can `return v.Err()`.
func (e *ValidationError) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ErrValidation is the sentinel matched by every ValidationError
var ErrValidation = NewDomainError(CodeValidation, "Validation failed")
