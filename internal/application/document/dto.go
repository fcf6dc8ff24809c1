package document

import (
	"github.com/generatordok/backend/internal/domain/theme"
)

// DocumentTypeResponse describes one supported document type
type DocumentTypeResponse struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	ExportLabel string `json:"export_label"`
	SurfaceID   string `json:"surface_id"`
}

// PreviewResponse is the composed surface of one document type
type PreviewResponse struct {
	DocType         string             `json:"doc_type"`
	SurfaceID       string             `json:"surface_id"`
	HTML            string             `json:"html"`
	Empty           bool               `json:"empty"`
	Stamp           *theme.StampConfig `json:"stamp,omitempty"`
	Background      string             `json:"background"`
	BackgroundClass string             `json:"background_class,omitempty"`
}

// StampRequest carries the stamp editor fields
type StampRequest struct {
	Template   string `json:"template" binding:"required"`
	MainText   string `json:"main_text" binding:"max=100"`
	SubText    string `json:"sub_text" binding:"max=100"`
	StatusText string `json:"status_text" binding:"max=50"`
	Color      string `json:"color" binding:"required"`
	Size       string `json:"size" binding:"required"`
}

// StampResponse is the stamp state of one document type
type StampResponse struct {
	Applied bool              `json:"applied"`
	Config  theme.StampConfig `json:"config"`
	// Thumbnail is the small rendering shown next to the form
	Thumbnail string `json:"thumbnail,omitempty"`
}

// StampTemplateResponse is one entry of the stamp template picker
type StampTemplateResponse struct {
	Template string `json:"template"`
	Name     string `json:"name"`
	Preview  string `json:"preview"`
}

// StampPreviewResponse is a rendered stamp
type StampPreviewResponse struct {
	HTML string `json:"html"`
}

// BackgroundRequest selects a background; empty or "none" clears it
type BackgroundRequest struct {
	Background string `json:"background"`
}

// BackgroundResponse describes one background theme
type BackgroundResponse struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	CSSClass string `json:"css_class"`
}

// PaymentTermResponse is one selectable payment term
type PaymentTermResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// DefaultsResponse prefills a fresh form
type DefaultsResponse struct {
	Date               string                `json:"date"`
	DueDate            string                `json:"due_date"`
	PaymentTerms       string                `json:"payment_terms"`
	PaymentTermOptions []PaymentTermResponse `json:"payment_term_options"`
	Stamp              theme.StampConfig     `json:"stamp"`
}

// FileResponse is a generated file ready for download
type FileResponse struct {
	FileName    string
	ContentType string
	Data        []byte
}
