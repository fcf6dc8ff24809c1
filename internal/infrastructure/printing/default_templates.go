package printing

import (
	"embed"
	"fmt"

	"github.com/generatordok/backend/internal/domain/document"
)

//go:embed templates/*.html templates/*.css
var templateFS embed.FS

const (
	partialsTemplatePath = "templates/partials.html"
	pageTemplatePath     = "templates/page.html"
	screenStylePath      = "templates/document.css"
	printStylePath       = "templates/print.css"
)

// DefaultTemplate describes the embedded layout of one document type
type DefaultTemplate struct {
	DocType  document.DocType
	Name     string
	FilePath string // Path within embed.FS
}

// GetDefaultTemplates returns the embedded layouts of every document type
func GetDefaultTemplates() []DefaultTemplate {
	return []DefaultTemplate{
		{DocType: document.DocTypeReceipt, Name: "Kwitansi A4", FilePath: "templates/receipt.html"},
		{DocType: document.DocTypeInvoice, Name: "Faktur A4", FilePath: "templates/invoice.html"},
		{DocType: document.DocTypeNote, Name: "Nota Dinas A4", FilePath: "templates/note.html"},
	}
}

// GetDefaultTemplateForDocType returns the layout of the given document type
func GetDefaultTemplateForDocType(docType document.DocType) *DefaultTemplate {
	for _, tmpl := range GetDefaultTemplates() {
		if tmpl.DocType == docType {
			return &tmpl
		}
	}
	return nil
}

// LoadTemplateContent loads template content from the embedded filesystem
func LoadTemplateContent(filePath string) (string, error) {
	content, err := templateFS.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", filePath, err)
	}
	return string(content), nil
}
