// Package export turns a composed document surface into a downloadable PDF.
package export

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	appdoc "github.com/generatordok/backend/internal/application/document"
	"github.com/generatordok/backend/internal/domain/document"
	"github.com/generatordok/backend/internal/domain/printing"
	"github.com/generatordok/backend/internal/domain/shared"
	infra "github.com/generatordok/backend/internal/infrastructure/printing"
	"github.com/generatordok/backend/internal/infrastructure/logger"
	"github.com/generatordok/backend/internal/infrastructure/telemetry"
)

// ContentTypePDF is the media type of every exported file
const ContentTypePDF = "application/pdf"

// Control labels of the export trigger
const (
	LabelIdle = "Unduh PDF"
	LabelBusy = "Membuat PDF..."
)

// Outcome is the result kind of an export
type Outcome string

const (
	OutcomeSuccess       Outcome = "success"
	OutcomeEmptySurface  Outcome = "empty_surface"
	OutcomeCaptureFailed Outcome = "capture_failed"
)

// File is an exported document
type File struct {
	ExportID    uuid.UUID
	FileName    string
	ContentType string
	Data        []byte
	// Path and URL are set when the file was kept in storage
	Path string
	URL  string
}

// Result is the outcome of Export. File is set on success, Err otherwise.
type Result struct {
	Outcome Outcome
	File    *File
	Err     error
}

// ControlState is the state of the export trigger for one document type
type ControlState struct {
	DocType  string `json:"doc_type"`
	Disabled bool   `json:"disabled"`
	Label    string `json:"label"`
}

// SurfaceSource provides the composed surfaces
type SurfaceSource interface {
	Snapshot(t document.DocType) appdoc.Snapshot
}

// PageComposer wraps a fragment into a standalone HTML page
type PageComposer interface {
	Page(req *infra.PageRequest) (string, error)
}

// Settings holds the capture and page parameters
type Settings struct {
	Page         printing.Page
	Margins      printing.Margins
	PrintMargins printing.Margins
	Scale        float64
	JPEGQuality  int
	// Timeout bounds each browser operation; zero leaves it to the backend
	Timeout time.Duration
}

// DefaultSettings returns A4 portrait, 10 mm margins, scale 2, JPEG quality 95
func DefaultSettings() Settings {
	return Settings{
		Page:         printing.A4Portrait(),
		Margins:      printing.DefaultMargins(),
		PrintMargins: printing.PrintMargins(),
		Scale:        2,
		JPEGQuality:  95,
	}
}

// Pipeline exports surfaces as single-page PDFs. At most one export per
// document type runs at a time; different types run independently.
type Pipeline struct {
	surfaces SurfaceSource
	pages    PageComposer
	capturer infra.RasterCapturer
	writer   infra.PageWriter
	printer  infra.PDFRenderer
	storage  infra.PDFStorage
	settings Settings
	busy     map[document.DocType]*atomic.Bool
	meter    metric.Meter
	metrics  *pipelineMetrics
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures the pipeline
type Option func(*Pipeline)

// WithStorage keeps every exported file in storage
func WithStorage(storage infra.PDFStorage) Option {
	return func(p *Pipeline) {
		p.storage = storage
	}
}

// WithSettings overrides DefaultSettings
func WithSettings(settings Settings) Option {
	return func(p *Pipeline) {
		p.settings = settings
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMeter records export metrics on meter instead of the global provider
func WithMeter(meter metric.Meter) Option {
	return func(p *Pipeline) {
		p.meter = meter
	}
}

// WithClock overrides the time source used for fallback file names
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates an export pipeline
func NewPipeline(
	surfaces SurfaceSource,
	pages PageComposer,
	capturer infra.RasterCapturer,
	writer infra.PageWriter,
	printer infra.PDFRenderer,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		surfaces: surfaces,
		pages:    pages,
		capturer: capturer,
		writer:   writer,
		printer:  printer,
		settings: DefaultSettings(),
		busy:     make(map[document.DocType]*atomic.Bool),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, t := range document.AllDocTypes() {
		p.busy[t] = &atomic.Bool{}
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.meter == nil {
		p.meter = otel.GetMeterProvider().Meter(meterName)
	}
	metrics, err := newPipelineMetrics(p.meter)
	if err != nil {
		p.logger.Warn("export metrics disabled", zap.Error(err))
	}
	p.metrics = metrics
	return p
}

// State returns the export trigger state of t
func (p *Pipeline) State(t document.DocType) ControlState {
	state := ControlState{DocType: t.String(), Label: LabelIdle}
	if guard, ok := p.busy[t]; ok && guard.Load() {
		state.Disabled = true
		state.Label = LabelBusy
	}
	return state
}

// Export captures the surface of t and writes it to a one-page PDF.
//
// An empty surface yields OutcomeEmptySurface without touching the busy
// state. Any capture, assembly or storage failure yields OutcomeCaptureFailed;
// the caller may then fall back to Print. The only error returned directly is
// shared.ErrExportInProgress when t is already being exported.
func (p *Pipeline) Export(ctx context.Context, t document.DocType) (*Result, error) {
	snap := p.surfaces.Snapshot(t)
	if snap.Empty() || snap.Doc == nil {
		p.metrics.result(ctx, t, OutcomeEmptySurface, 0)
		return &Result{Outcome: OutcomeEmptySurface, Err: shared.ErrEmptySurface}, nil
	}

	guard, ok := p.busy[t]
	if !ok {
		return nil, shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("unknown document type %q", t))
	}
	if !guard.CompareAndSwap(false, true) {
		return nil, shared.ErrExportInProgress
	}
	defer guard.Store(false)

	ctx, span := telemetry.StartSpan(ctx, "export", "pdf",
		telemetry.AttrDocType.String(t.String()))
	defer span.End()

	log := logger.For(ctx, p.logger).With(zap.String("doc_type", t.String()))

	start := time.Now()
	file, err := p.export(ctx, snap)
	if err != nil {
		p.metrics.result(ctx, t, OutcomeCaptureFailed, time.Since(start))
		telemetry.RecordError(span, err)
		span.SetAttributes(telemetry.AttrOutcome.String(string(OutcomeCaptureFailed)))
		log.Warn("export failed, print fallback available", zap.Error(err))
		return &Result{
			Outcome: OutcomeCaptureFailed,
			Err:     fmt.Errorf("%w: %w", shared.ErrCaptureFailed, err),
		}, nil
	}

	p.metrics.result(ctx, t, OutcomeSuccess, time.Since(start))
	span.SetAttributes(
		telemetry.AttrOutcome.String(string(OutcomeSuccess)),
		telemetry.AttrExportID.String(file.ExportID.String()),
		telemetry.AttrFileName.String(file.FileName),
		telemetry.AttrSizeBytes.Int(len(file.Data)),
	)
	log.Info("export completed",
		zap.String("export_id", file.ExportID.String()),
		zap.String("file_name", file.FileName),
		zap.Int("size", len(file.Data)))

	return &Result{Outcome: OutcomeSuccess, File: file}, nil
}

func (p *Pipeline) export(ctx context.Context, snap appdoc.Snapshot) (*File, error) {
	html, err := p.pages.Page(&infra.PageRequest{
		DocType:    snap.DocType,
		Fragment:   snap.Fragment,
		Background: snap.Decoration.Background,
		Mode:       infra.StyleCapture,
	})
	if err != nil {
		return nil, err
	}

	raster, err := p.capture(ctx, snap, html)
	if err != nil {
		return nil, err
	}

	fileName := document.ExportFileName(snap.Doc, "pdf", p.now())
	placement := printing.FitImage(p.settings.Page, p.settings.Margins, raster.Width, raster.Height)

	written := time.Now()
	data, err := p.writer.WritePage(ctx, &infra.WriteRequest{
		Raster:    raster,
		Page:      p.settings.Page,
		Placement: placement,
		Title:     fileName,
	})
	p.metrics.stage(ctx, snap.DocType, stageWrite, time.Since(written))
	if err != nil {
		return nil, err
	}

	file := &File{
		ExportID:    uuid.New(),
		FileName:    fileName,
		ContentType: ContentTypePDF,
		Data:        data,
	}
	if p.storage == nil {
		return file, nil
	}

	storeCtx, span := telemetry.StartSpan(ctx, "export", "store")
	defer span.End()
	storing := time.Now()
	stored, err := p.storage.Store(storeCtx, &infra.StoreRequest{
		ExportID:    file.ExportID,
		FileName:    file.FileName,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	p.metrics.stage(ctx, snap.DocType, stageStore, time.Since(storing))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.AddEvent(span, "stored", telemetry.AttrFileName.String(stored.Path))
	file.Path = stored.Path
	file.URL = stored.URL
	return file, nil
}

func (p *Pipeline) capture(ctx context.Context, snap appdoc.Snapshot, html string) (_ *infra.Raster, err error) {
	ctx, span := telemetry.StartSpan(ctx, "export", "capture")
	defer telemetry.End(span, &err)

	start := time.Now()
	raster, err := p.capturer.Capture(ctx, &infra.CaptureRequest{
		HTML:      html,
		ElementID: snap.DocType.SurfaceID(),
		Scale:     p.settings.Scale,
		Quality:   p.settings.JPEGQuality,
		Timeout:   p.settings.Timeout,
	})
	p.metrics.stage(ctx, snap.DocType, stageCapture, time.Since(start))
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		telemetry.AttrRasterWidth.Int(raster.Width),
		telemetry.AttrRasterHeight.Int(raster.Height),
	)
	return raster, nil
}

// Print renders the surface of t through the native print path: print
// styles, A4 with 20 mm page margins, paginated by the browser.
func (p *Pipeline) Print(ctx context.Context, t document.DocType) (_ *File, err error) {
	snap := p.surfaces.Snapshot(t)
	if snap.Empty() || snap.Doc == nil {
		return nil, shared.ErrEmptySurface
	}

	ctx, span := telemetry.StartSpan(ctx, "export", "print",
		telemetry.AttrDocType.String(t.String()))
	defer telemetry.End(span, &err)

	html, err := p.pages.Page(&infra.PageRequest{
		DocType:    t,
		Fragment:   snap.Fragment,
		Background: snap.Decoration.Background,
		Mode:       infra.StylePrint,
		Title:      infra.PrintTitle,
	})
	if err != nil {
		return nil, err
	}

	result, err := p.printer.Render(ctx, &infra.RenderRequest{
		HTML:    html,
		Page:    p.settings.Page,
		Margins: p.settings.PrintMargins,
		Title:   infra.PrintTitle,
		Timeout: p.settings.Timeout,
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, p.logger).Info("print rendered",
		zap.String("doc_type", t.String()),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))

	return &File{
		ExportID:    uuid.New(),
		FileName:    document.ExportFileName(snap.Doc, "pdf", p.now()),
		ContentType: ContentTypePDF,
		Data:        result.PDFData,
	}, nil
}
