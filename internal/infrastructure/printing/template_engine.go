package printing

import (
	"bytes"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/generatordok/backend/internal/domain/document"
)

// TemplateEngine handles rendering HTML templates with document data.
// It uses Go's html/template package with custom functions for formatting.
type TemplateEngine struct {
	funcMap template.FuncMap
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a new template engine with default configuration
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{}

	e.funcMap = template.FuncMap{
		// Money and numbers
		"formatCurrency": formatCurrency,
		"formatNumber":   formatNumber,

		// Dates
		"formatDate": formatDate,

		// Strings
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"trim":  strings.TrimSpace,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Parse parses a named template set with the engine's functions
func (e *TemplateEngine) Parse(name string, contents ...string) (*template.Template, error) {
	tmpl := template.New(name).Funcs(e.funcMap)
	for _, content := range contents {
		if strings.TrimSpace(content) == "" {
			return nil, NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
		}
		var err error
		tmpl, err = tmpl.Parse(content)
		if err != nil {
			return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse template "+name, err)
		}
	}
	return tmpl, nil
}

// RenderString renders a template string with the provided data
func (e *TemplateEngine) RenderString(name, content string, data any) (string, error) {
	tmpl, err := e.Parse(name, content)
	if err != nil {
		return "", err
	}
	return execute(tmpl, name, data)
}

// GetFuncMap returns a copy of the template function map
func (e *TemplateEngine) GetFuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

func execute(tmpl *template.Template, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template "+name, err)
	}
	return buf.String(), nil
}

// formatCurrency formats an amount in rupiah
// Example: 100000 -> "Rp 100.000"
func formatCurrency(v decimal.Decimal) string {
	return document.FormatCurrency(v)
}

// formatNumber formats a quantity or rate with Indonesian separators
// Example: 12.5 -> "12,5"
func formatNumber(v decimal.Decimal) string {
	return document.FormatNumber(v)
}

// formatDate formats a date in the long Indonesian form
// Example: 2026-10-19 -> "19 Oktober 2026"
func formatDate(t time.Time) string {
	return document.FormatDate(t)
}
