package export

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	appdoc "github.com/generatordok/backend/internal/application/document"
	"github.com/generatordok/backend/internal/domain/document"
	"github.com/generatordok/backend/internal/domain/printing"
	"github.com/generatordok/backend/internal/domain/shared"
	"github.com/generatordok/backend/internal/domain/theme"
	infra "github.com/generatordok/backend/internal/infrastructure/printing"
)

var fixedNow = time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)

type fakeSurfaces struct {
	snapshots map[document.DocType]appdoc.Snapshot
}

func (f *fakeSurfaces) Snapshot(t document.DocType) appdoc.Snapshot {
	if s, ok := f.snapshots[t]; ok {
		return s
	}
	return appdoc.Snapshot{DocType: t}
}

type fakePages struct {
	mu       sync.Mutex
	requests []infra.PageRequest
}

func (f *fakePages) Page(req *infra.PageRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, *req)
	return "<html>" + string(req.Fragment) + "</html>", nil
}

type fakeCapturer struct {
	err     error
	block   chan struct{}
	started chan struct{}
	req     *infra.CaptureRequest
}

func (f *fakeCapturer) Capture(ctx context.Context, req *infra.CaptureRequest) (*infra.Raster, error) {
	f.req = req
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &infra.Raster{Data: []byte{0xFF, 0xD8}, Format: infra.ImageFormatJPEG, Width: 1600, Height: 2000}, nil
}

type fakeWriter struct {
	err error
	req *infra.WriteRequest
}

func (f *fakeWriter) WritePage(ctx context.Context, req *infra.WriteRequest) ([]byte, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.3"), nil
}

type fakePrinter struct {
	req *infra.RenderRequest
}

func (f *fakePrinter) Render(ctx context.Context, req *infra.RenderRequest) (*infra.RenderResult, error) {
	f.req = req
	return &infra.RenderResult{PDFData: []byte("%PDF-print"), PageCount: 1}, nil
}

func (f *fakePrinter) Close() error { return nil }

type fakeStorage struct {
	err    error
	stored []*infra.StoreRequest
}

func (f *fakeStorage) Store(ctx context.Context, req *infra.StoreRequest) (*infra.StoreResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.stored = append(f.stored, req)
	path := "2026/10/" + req.ExportID.String() + "/" + req.FileName
	return &infra.StoreResult{Path: path, URL: "/api/v1/exports/" + path, Size: int64(len(req.Data))}, nil
}

func (f *fakeStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) { return nil, nil }
func (f *fakeStorage) Delete(ctx context.Context, path string) error              { return nil }
func (f *fakeStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	return 0, nil
}
func (f *fakeStorage) GetURL(path string) string { return "/api/v1/exports/" + path }

type harness struct {
	surfaces *fakeSurfaces
	pages    *fakePages
	capturer *fakeCapturer
	writer   *fakeWriter
	printer  *fakePrinter
	storage  *fakeStorage
	pipeline *Pipeline
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		surfaces: &fakeSurfaces{snapshots: map[document.DocType]appdoc.Snapshot{}},
		pages:    &fakePages{},
		capturer: &fakeCapturer{},
		writer:   &fakeWriter{},
		printer:  &fakePrinter{},
		storage:  &fakeStorage{},
	}
	h.pipeline = NewPipeline(h.surfaces, h.pages, h.capturer, h.writer, h.printer,
		WithStorage(h.storage),
		WithLogger(zaptest.NewLogger(t)),
		WithClock(func() time.Time { return fixedNow }),
	)
	return h
}

func (h *harness) compose(doc document.Document, bg theme.Background) {
	h.surfaces.snapshots[doc.Type()] = appdoc.Snapshot{
		DocType:    doc.Type(),
		Doc:        doc,
		Fragment:   "<div>composed</div>",
		Decoration: theme.Decoration{Background: bg},
	}
}

func TestExport_Success(t *testing.T) {
	h := newHarness(t)
	h.compose(&document.ReceiptData{Number: "KW-001"}, theme.BackgroundClassic)

	result, err := h.pipeline.Export(context.Background(), document.DocTypeReceipt)

	require.NoError(t, err)
	require.Equal(t, OutcomeSuccess, result.Outcome)
	require.NoError(t, result.Err)
	assert.Equal(t, "kwitansi-KW-001.pdf", result.File.FileName)
	assert.Equal(t, ContentTypePDF, result.File.ContentType)
	assert.Equal(t, []byte("%PDF-1.3"), result.File.Data)
	assert.Contains(t, result.File.URL, "kwitansi-KW-001.pdf")

	// capture page carries the background and uses capture styles
	require.Len(t, h.pages.requests, 1)
	assert.Equal(t, infra.StyleCapture, h.pages.requests[0].Mode)
	assert.Equal(t, theme.BackgroundClassic, h.pages.requests[0].Background)

	assert.Equal(t, "receipt-preview", h.capturer.req.ElementID)
	assert.Equal(t, 2.0, h.capturer.req.Scale)
	assert.Equal(t, 95, h.capturer.req.Quality)

	// 1600x2000 on A4 with 10mm margins: width-bound, 190 x 237.5
	p := h.writer.req.Placement
	assert.InDelta(t, 10, p.X, 1e-9)
	assert.InDelta(t, 10, p.Y, 1e-9)
	assert.InDelta(t, 190, p.Width, 1e-9)
	assert.InDelta(t, 237.5, p.Height, 1e-9)
	assert.Equal(t, printing.A4Portrait(), h.writer.req.Page)

	require.Len(t, h.storage.stored, 1)
	assert.Equal(t, result.File.ExportID, h.storage.stored[0].ExportID)
	assert.Equal(t, ControlState{DocType: "receipt", Label: LabelIdle}, h.pipeline.State(document.DocTypeReceipt))
}

func TestExport_FileNameFallsBackToDate(t *testing.T) {
	h := newHarness(t)
	h.compose(&document.NoteData{}, theme.BackgroundNone)

	result, err := h.pipeline.Export(context.Background(), document.DocTypeNote)

	require.NoError(t, err)
	assert.Equal(t, "nota-2026-10-19.pdf", result.File.FileName)
}

func TestExport_EmptySurface(t *testing.T) {
	h := newHarness(t)

	result, err := h.pipeline.Export(context.Background(), document.DocTypeInvoice)

	require.NoError(t, err)
	assert.Equal(t, OutcomeEmptySurface, result.Outcome)
	assert.ErrorIs(t, result.Err, shared.ErrEmptySurface)
	assert.Equal(t, "Silakan buat pratinjau terlebih dahulu!", result.Err.Error())
	assert.Nil(t, h.capturer.req)
	assert.False(t, h.pipeline.State(document.DocTypeInvoice).Disabled)
}

func TestExport_CaptureFailed(t *testing.T) {
	h := newHarness(t)
	h.compose(&document.InvoiceData{Number: "INV-1"}, theme.BackgroundNone)
	h.capturer.err = errors.New("browser crashed")

	result, err := h.pipeline.Export(context.Background(), document.DocTypeInvoice)

	require.NoError(t, err)
	assert.Equal(t, OutcomeCaptureFailed, result.Outcome)
	assert.ErrorIs(t, result.Err, shared.ErrCaptureFailed)
	assert.Contains(t, result.Err.Error(), "browser crashed")
	assert.Nil(t, result.File)
	assert.Nil(t, h.writer.req)
	assert.False(t, h.pipeline.State(document.DocTypeInvoice).Disabled, "busy state must be released")
}

func TestExport_WriteAndStorageFailures(t *testing.T) {
	t.Run("writer", func(t *testing.T) {
		h := newHarness(t)
		h.compose(&document.ReceiptData{Number: "A"}, theme.BackgroundNone)
		h.writer.err = errors.New("bad jpeg")

		result, err := h.pipeline.Export(context.Background(), document.DocTypeReceipt)
		require.NoError(t, err)
		assert.Equal(t, OutcomeCaptureFailed, result.Outcome)
	})

	t.Run("storage", func(t *testing.T) {
		h := newHarness(t)
		h.compose(&document.ReceiptData{Number: "A"}, theme.BackgroundNone)
		h.storage.err = errors.New("disk full")

		result, err := h.pipeline.Export(context.Background(), document.DocTypeReceipt)
		require.NoError(t, err)
		assert.Equal(t, OutcomeCaptureFailed, result.Outcome)
		assert.False(t, h.pipeline.State(document.DocTypeReceipt).Disabled)
	})
}

func TestExport_BusyGuard(t *testing.T) {
	h := newHarness(t)
	h.compose(&document.ReceiptData{Number: "A"}, theme.BackgroundNone)
	h.compose(&document.NoteData{Number: "B"}, theme.BackgroundNone)
	h.capturer.block = make(chan struct{})
	h.capturer.started = make(chan struct{})

	done := make(chan *Result)
	go func() {
		result, _ := h.pipeline.Export(context.Background(), document.DocTypeReceipt)
		done <- result
	}()
	<-h.capturer.started

	assert.Equal(t, ControlState{DocType: "receipt", Disabled: true, Label: LabelBusy},
		h.pipeline.State(document.DocTypeReceipt))
	assert.False(t, h.pipeline.State(document.DocTypeNote).Disabled)

	_, err := h.pipeline.Export(context.Background(), document.DocTypeReceipt)
	assert.ErrorIs(t, err, shared.ErrExportInProgress)

	close(h.capturer.block)
	result := <-done
	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, LabelIdle, h.pipeline.State(document.DocTypeReceipt).Label)
}

func TestExport_WithoutStorage(t *testing.T) {
	h := newHarness(t)
	h.compose(&document.ReceiptData{Number: "A"}, theme.BackgroundNone)
	pipeline := NewPipeline(h.surfaces, h.pages, h.capturer, h.writer, h.printer)

	result, err := pipeline.Export(context.Background(), document.DocTypeReceipt)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Empty(t, result.File.URL)
	assert.Empty(t, h.storage.stored)
}

func TestPrint(t *testing.T) {
	h := newHarness(t)
	h.compose(&document.InvoiceData{Number: "INV-2"}, theme.BackgroundWatermark)

	file, err := h.pipeline.Print(context.Background(), document.DocTypeInvoice)

	require.NoError(t, err)
	assert.Equal(t, "faktur-INV-2.pdf", file.FileName)
	assert.Equal(t, []byte("%PDF-print"), file.Data)

	require.Len(t, h.pages.requests, 1)
	assert.Equal(t, infra.StylePrint, h.pages.requests[0].Mode)
	assert.Equal(t, infra.PrintTitle, h.pages.requests[0].Title)
	assert.Equal(t, printing.PrintMargins(), h.printer.req.Margins)
	assert.Equal(t, infra.PrintTitle, h.printer.req.Title)
}

func TestPrint_EmptySurface(t *testing.T) {
	h := newHarness(t)

	_, err := h.pipeline.Print(context.Background(), document.DocTypeReceipt)

	assert.ErrorIs(t, err, shared.ErrEmptySurface)
	assert.Nil(t, h.printer.req)
}
