package document

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/generatordok/backend/internal/domain/document"
	"github.com/generatordok/backend/internal/domain/shared"
	"github.com/generatordok/backend/internal/domain/theme"
	infra "github.com/generatordok/backend/internal/infrastructure/printing"
	"github.com/generatordok/backend/internal/infrastructure/logger"
	"github.com/generatordok/backend/internal/infrastructure/spreadsheet"
	"github.com/generatordok/backend/internal/infrastructure/telemetry"
)

// dueDateOffset is how far the default invoice due date lies after today
const dueDateOffset = 30 * 24 * time.Hour

// Service handles document generation and decoration use cases
type Service struct {
	workspace *Workspace
	composer  *infra.Composer
	ledger    *spreadsheet.Ledger
	logger    *zap.Logger
	now       func() time.Time
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithClock overrides the time source used for form defaults
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new document Service
func NewService(
	workspace *Workspace,
	composer *infra.Composer,
	ledger *spreadsheet.Ledger,
	logger *zap.Logger,
	opts ...ServiceOption,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ledger == nil {
		ledger = spreadsheet.NewLedger(logger)
	}
	s := &Service{
		workspace: workspace,
		composer:  composer,
		ledger:    ledger,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Workspace returns the surface state shared with the export pipeline
func (s *Service) Workspace() *Workspace {
	return s.workspace
}

// =============================================================================
// Generation
// =============================================================================

// GenerateReceipt extracts a receipt from the form and composes its preview
func (s *Service) GenerateReceipt(ctx context.Context, form document.ReceiptForm) (*PreviewResponse, error) {
	doc, err := document.ExtractReceipt(form)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, doc)
}

// GenerateInvoice extracts an invoice from the form and composes its preview
func (s *Service) GenerateInvoice(ctx context.Context, form document.InvoiceForm) (*PreviewResponse, error) {
	doc, err := document.ExtractInvoice(form)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, doc)
}

// GenerateNote extracts a memo from the form and composes its preview
func (s *Service) GenerateNote(ctx context.Context, form document.NoteForm) (*PreviewResponse, error) {
	doc, err := document.ExtractNote(form)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, doc)
}

func (s *Service) generate(ctx context.Context, doc document.Document) (_ *PreviewResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "document", "generate",
		telemetry.AttrDocType.String(doc.Type().String()),
		telemetry.AttrDocumentNumber.String(doc.DocumentNumber()),
		telemetry.AttrItemCount.Int(len(document.ItemsOf(doc))),
	)
	defer telemetry.End(span, &err)

	err = s.workspace.update(doc.Type(), func(sf *surface) error {
		fragment, err := s.composer.Compose(doc, sf.decoration)
		if err != nil {
			return err
		}
		sf.doc = doc
		sf.fragment = fragment
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("document generated",
		zap.String("doc_type", doc.Type().String()),
		zap.String("number", doc.DocumentNumber()))

	return s.preview(doc.Type()), nil
}

// Preview returns the current surface of t. A type that was never generated
// yields an empty preview, not an error.
func (s *Service) Preview(ctx context.Context, t document.DocType) (*PreviewResponse, error) {
	return s.preview(t), nil
}

func (s *Service) preview(t document.DocType) *PreviewResponse {
	snap := s.workspace.Snapshot(t)
	return &PreviewResponse{
		DocType:         t.String(),
		SurfaceID:       t.SurfaceID(),
		HTML:            string(snap.Fragment),
		Empty:           snap.Empty(),
		Stamp:           snap.Decoration.Stamp,
		Background:      snap.Decoration.Background.String(),
		BackgroundClass: snap.Decoration.Background.CSSClass(),
	}
}

// Page returns the current surface of t as a standalone HTML document
func (s *Service) Page(ctx context.Context, t document.DocType, mode infra.StyleMode) (string, error) {
	snap := s.workspace.Snapshot(t)
	title := ""
	if mode == infra.StylePrint {
		title = infra.PrintTitle
	}
	return s.composer.Page(&infra.PageRequest{
		DocType:    t,
		Fragment:   snap.Fragment,
		Background: snap.Decoration.Background,
		Mode:       mode,
		Title:      title,
	})
}

// =============================================================================
// Stamp Operations
// =============================================================================

// ApplyStamp stores the stamp for t and recomposes the surface
func (s *Service) ApplyStamp(ctx context.Context, t document.DocType, req StampRequest) (*StampResponse, error) {
	cfg, err := theme.NewStampConfig(req.Template, req.MainText, req.SubText, req.StatusText, req.Color, req.Size)
	if err != nil {
		return nil, err
	}

	err = s.workspace.update(t, func(sf *surface) error {
		sf.decoration.SetStamp(cfg)
		return s.recompose(sf)
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("stamp applied",
		zap.String("doc_type", t.String()),
		zap.String("template", cfg.Variant.String()),
		zap.String("color", string(cfg.Color)))

	return toStampResponse(&cfg), nil
}

// ClearStamp removes the stamp of t and recomposes the surface
func (s *Service) ClearStamp(ctx context.Context, t document.DocType) (*StampResponse, error) {
	err := s.workspace.update(t, func(sf *surface) error {
		sf.decoration.ClearStamp()
		return s.recompose(sf)
	})
	if err != nil {
		return nil, err
	}
	logger.For(ctx, s.logger).Info("stamp cleared", zap.String("doc_type", t.String()))
	return toStampResponse(nil), nil
}

// GetStamp returns the stamp of t, or the editor defaults when none is applied
func (s *Service) GetStamp(ctx context.Context, t document.DocType) *StampResponse {
	return toStampResponse(s.workspace.Snapshot(t).Decoration.Stamp)
}

// StampTemplates returns the template picker catalog
func (s *Service) StampTemplates() []StampTemplateResponse {
	catalog := theme.TemplateCatalog()
	result := make([]StampTemplateResponse, len(catalog))
	for i, sample := range catalog {
		result[i] = StampTemplateResponse{
			Template: sample.Variant.String(),
			Name:     sample.Name,
			Preview:  string(sample.Preview),
		}
	}
	return result
}

// StampPreview renders the editor fields at the requested size without
// touching any surface
func (s *Service) StampPreview(ctx context.Context, req StampRequest) (*StampPreviewResponse, error) {
	cfg, err := theme.NewStampConfig(req.Template, req.MainText, req.SubText, req.StatusText, req.Color, req.Size)
	if err != nil {
		return nil, err
	}
	return &StampPreviewResponse{HTML: string(cfg.Render())}, nil
}

func toStampResponse(cfg *theme.StampConfig) *StampResponse {
	if cfg == nil {
		return &StampResponse{Applied: false, Config: theme.DefaultStampConfig()}
	}
	return &StampResponse{
		Applied:   true,
		Config:    *cfg,
		Thumbnail: string(cfg.Thumbnail()),
	}
}

// =============================================================================
// Background Operations
// =============================================================================

// ApplyBackground sets the background of t. "" and "none" clear it.
func (s *Service) ApplyBackground(ctx context.Context, t document.DocType, req BackgroundRequest) (*PreviewResponse, error) {
	bg, err := theme.ParseBackground(req.Background)
	if err != nil {
		return nil, err
	}
	return s.setBackground(ctx, t, bg)
}

// ClearBackground removes the background of t
func (s *Service) ClearBackground(ctx context.Context, t document.DocType) (*PreviewResponse, error) {
	return s.setBackground(ctx, t, theme.BackgroundNone)
}

func (s *Service) setBackground(ctx context.Context, t document.DocType, bg theme.Background) (*PreviewResponse, error) {
	err := s.workspace.update(t, func(sf *surface) error {
		if err := theme.ApplyBackground(&sf.decoration, bg); err != nil {
			return err
		}
		return s.recompose(sf)
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("background applied",
		zap.String("doc_type", t.String()),
		zap.String("background", bg.String()))
	return s.preview(t), nil
}

// Backgrounds lists the selectable background themes
func (s *Service) Backgrounds() []BackgroundResponse {
	all := theme.AllBackgrounds()
	result := make([]BackgroundResponse, len(all))
	for i, bg := range all {
		result[i] = BackgroundResponse{
			Code:     bg.String(),
			Name:     bg.DisplayName(),
			CSSClass: bg.CSSClass(),
		}
	}
	return result
}

// recompose refreshes the fragment after a decoration change.
// A surface that was never generated stays empty.
func (s *Service) recompose(sf *surface) error {
	if sf.doc == nil {
		return nil
	}
	fragment, err := s.composer.Compose(sf.doc, sf.decoration)
	if err != nil {
		return err
	}
	sf.fragment = fragment
	return nil
}

// =============================================================================
// Reference Data
// =============================================================================

// DocumentTypes returns all supported document types
func (s *Service) DocumentTypes() []DocumentTypeResponse {
	types := document.AllDocTypes()
	result := make([]DocumentTypeResponse, len(types))
	for i, t := range types {
		result[i] = DocumentTypeResponse{
			Code:        t.String(),
			Title:       t.Title(),
			ExportLabel: t.ExportLabel(),
			SurfaceID:   t.SurfaceID(),
		}
	}
	return result
}

// Defaults returns today's date, a due date 30 days out and the stamp editor
// defaults. Dates are UTC calendar days.
func (s *Service) Defaults() *DefaultsResponse {
	today := s.now().UTC()
	terms := document.AllPaymentTerms()
	options := make([]PaymentTermResponse, len(terms))
	for i, p := range terms {
		options[i] = PaymentTermResponse{Code: p.String(), Name: p.DisplayName()}
	}
	return &DefaultsResponse{
		Date:               today.Format(document.DateLayout),
		DueDate:            today.Add(dueDateOffset).Format(document.DateLayout),
		PaymentTerms:       document.PaymentTermsNet30.String(),
		PaymentTermOptions: options,
		Stamp:              theme.DefaultStampConfig(),
	}
}

// =============================================================================
// Spreadsheet
// =============================================================================

// ItemsXLSX writes the line items and totals of the last generated document
// of t. Memos and types never generated are rejected.
func (s *Service) ItemsXLSX(ctx context.Context, t document.DocType) (_ *FileResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "document", "items_xlsx",
		telemetry.AttrDocType.String(t.String()))
	defer telemetry.End(span, &err)

	snap := s.workspace.Snapshot(t)
	if snap.Doc == nil {
		return nil, shared.ErrEmptySurface
	}

	data, err := s.ledger.Write(ctx, snap.Doc)
	if err != nil {
		return nil, err
	}

	name := document.ExportFileName(snap.Doc, "xlsx", s.now())
	span.SetAttributes(
		telemetry.AttrFileName.String(name),
		telemetry.AttrSizeBytes.Int(len(data)),
	)

	return &FileResponse{
		FileName:    name,
		ContentType: spreadsheet.ContentType,
		Data:        data,
	}, nil
}
