package printing

import (
	"context"
	"time"

	"github.com/generatordok/backend/internal/domain/printing"
)

// RenderRequest contains the parameters for the native print path
type RenderRequest struct {
	// HTML content to render
	HTML string
	// Page defines the paper size and orientation
	Page printing.Page
	// Margins in millimeters
	Margins printing.Margins
	// Title for the PDF document metadata
	Title string
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// RenderResult contains the output of the print path
type RenderResult struct {
	// PDFData is the raw PDF file content
	PDFData []byte
	// PageCount is the number of pages in the PDF
	PageCount int
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// PDFRenderer is the print surface: it lays out HTML with print styles and
// lets the engine paginate it.
type PDFRenderer interface {
	// Render converts HTML content to a PDF document
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Close releases any resources held by the renderer
	Close() error
}

// ImageFormat is the encoding of a captured raster
type ImageFormat string

const (
	ImageFormatJPEG ImageFormat = "JPEG"
	ImageFormatPNG  ImageFormat = "PNG"
)

// CaptureRequest describes a raster capture of one element of an HTML page
type CaptureRequest struct {
	// HTML is the complete page to load
	HTML string
	// ElementID is the id of the element to capture
	ElementID string
	// Scale is the device pixel ratio of the capture
	Scale float64
	// Quality is the JPEG quality, 0-100
	Quality int
	// Timeout overrides the default capture timeout
	Timeout time.Duration
}

// Raster is a captured image with its pixel size
type Raster struct {
	Data   []byte
	Format ImageFormat
	Width  int
	Height int
}

// RasterCapturer turns a rendered element into an image
type RasterCapturer interface {
	Capture(ctx context.Context, req *CaptureRequest) (*Raster, error)
}

// WriteRequest places a raster on a single page
type WriteRequest struct {
	Raster    *Raster
	Page      printing.Page
	Placement printing.Placement
	Title     string
}

// PageWriter assembles a one-page PDF around a raster
type PageWriter interface {
	WritePage(ctx context.Context, req *WriteRequest) ([]byte, error)
}

// RenderError represents an error during capture, rendering or storage
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeInvalidHTML   = "INVALID_HTML"
	ErrCodeCaptureFailed = "CAPTURE_FAILED"
	ErrCodeInvalidImage  = "INVALID_IMAGE"
	ErrCodeWriteFailed   = "WRITE_FAILED"
	ErrCodeStorageFailed = "STORAGE_FAILED"
	ErrCodeFileNotFound  = "FILE_NOT_FOUND"
	ErrCodeInvalidPath   = "INVALID_PATH"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
