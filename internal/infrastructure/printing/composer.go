package printing

import (
	"fmt"
	"html/template"
	"strings"

	"go.uber.org/zap"

	"github.com/generatordok/backend/internal/domain/document"
	"github.com/generatordok/backend/internal/domain/theme"
)

// PrintTitle is the window title of the native print path
const PrintTitle = "Cetak Dokumen"

// StyleMode selects the stylesheet a page is rendered with
type StyleMode int

const (
	// StyleScreen is the on-screen preview with border and shadow
	StyleScreen StyleMode = iota
	// StyleCapture drops the shadow and outer padding for raster capture
	StyleCapture
	// StylePrint adds the print overrides and the A4 page rule
	StylePrint
)

// Issuer is the organisation block printed under every title
type Issuer struct {
	Name    string
	Tagline string
	Email   string
}

// DefaultIssuer returns the issuer printed on every document
func DefaultIssuer() Issuer {
	return Issuer{
		Name:    document.IssuerName,
		Tagline: "Solusi Dokumen Profesional",
		Email:   "kontak@generatordok.com",
	}
}

type layoutView struct {
	Title   string
	Issuer  Issuer
	Doc     document.Document
	Receipt document.ReceiptTotals
	Invoice document.InvoiceTotals
	Stamp   template.HTML
}

type pageView struct {
	Title           string
	Style           template.CSS
	BodyClass       string
	SurfaceID       string
	BackgroundClass string
	Background      string
	Fragment        template.HTML
}

// PageRequest describes a complete HTML page around a composed fragment
type PageRequest struct {
	DocType    document.DocType
	Fragment   template.HTML
	Background theme.Background
	Mode       StyleMode
	Title      string
}

// Composer assembles documents from typed records and decoration state.
// Output depends only on its inputs, so composing twice yields the same markup.
type Composer struct {
	layouts   map[document.DocType]*template.Template
	page      *template.Template
	screenCSS string
	printCSS  string
	issuer    Issuer
	logger    *zap.Logger
}

// ComposerOption configures the composer
type ComposerOption func(*Composer)

// WithIssuer overrides the issuer block
func WithIssuer(issuer Issuer) ComposerOption {
	return func(c *Composer) {
		c.issuer = issuer
	}
}

// WithComposerLogger sets the logger
func WithComposerLogger(logger *zap.Logger) ComposerOption {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewComposer parses the embedded layouts and stylesheets
func NewComposer(engine *TemplateEngine, opts ...ComposerOption) (*Composer, error) {
	if engine == nil {
		engine = NewTemplateEngine()
	}
	c := &Composer{
		layouts: make(map[document.DocType]*template.Template),
		issuer:  DefaultIssuer(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	partials, err := LoadTemplateContent(partialsTemplatePath)
	if err != nil {
		return nil, err
	}
	for _, def := range GetDefaultTemplates() {
		content, err := LoadTemplateContent(def.FilePath)
		if err != nil {
			return nil, err
		}
		tmpl, err := engine.Parse(def.DocType.String(), partials, content)
		if err != nil {
			return nil, err
		}
		c.layouts[def.DocType] = tmpl
	}

	pageContent, err := LoadTemplateContent(pageTemplatePath)
	if err != nil {
		return nil, err
	}
	if c.page, err = engine.Parse("page", pageContent); err != nil {
		return nil, err
	}
	if c.screenCSS, err = LoadTemplateContent(screenStylePath); err != nil {
		return nil, err
	}
	if c.printCSS, err = LoadTemplateContent(printStylePath); err != nil {
		return nil, err
	}
	return c, nil
}

// Compose renders the document body with its stamp. The background is not
// part of the fragment; it belongs to the surface the fragment is placed in.
func (c *Composer) Compose(doc document.Document, deco theme.Decoration) (template.HTML, error) {
	if doc == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "document is nil", nil)
	}
	tmpl, ok := c.layouts[doc.Type()]
	if !ok {
		return "", NewRenderError(ErrCodeInvalidHTML, fmt.Sprintf("no layout for document type %s", doc.Type()), nil)
	}

	view := layoutView{
		Title:  doc.Type().Title(),
		Issuer: c.issuer,
		Doc:    doc,
		Stamp:  deco.StampHTML(),
	}
	switch d := doc.(type) {
	case *document.ReceiptData:
		view.Receipt = d.Totals()
	case *document.InvoiceData:
		view.Invoice = d.Totals()
	case *document.NoteData:
		// memos carry the name only
		view.Issuer.Email = ""
	}

	html, err := execute(tmpl, doc.Type().String(), view)
	if err != nil {
		return "", err
	}
	c.logger.Debug("document composed",
		zap.String("doc_type", doc.Type().String()),
		zap.Bool("stamp", deco.HasStamp()),
		zap.String("background", deco.Background.String()))
	return template.HTML(html), nil
}

// Page wraps a fragment into a standalone HTML document with the stylesheet
// for the requested mode.
func (c *Composer) Page(req *PageRequest) (string, error) {
	if req == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "page request is nil", nil)
	}
	title := req.Title
	if title == "" {
		title = req.DocType.Title()
	}
	view := pageView{
		Title:           title,
		Style:           template.CSS(c.stylesheet(req.Mode)),
		SurfaceID:       req.DocType.SurfaceID(),
		BackgroundClass: req.Background.CSSClass(),
		Background:      req.Background.String(),
		Fragment:        req.Fragment,
	}
	if req.Mode == StyleCapture {
		view.BodyClass = "capture"
	}
	return execute(c.page, "page", view)
}

// Stylesheet returns the CSS used for the given mode
func (c *Composer) Stylesheet(mode StyleMode) string {
	return c.stylesheet(mode)
}

func (c *Composer) stylesheet(mode StyleMode) string {
	if mode != StylePrint {
		return c.screenCSS
	}
	var b strings.Builder
	b.WriteString(c.screenCSS)
	b.WriteString("\n")
	b.WriteString(c.printCSS)
	return b.String()
}
