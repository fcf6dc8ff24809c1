package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/generatordok/backend/internal/domain/printing"
)

const (
	defaultChromeTimeout  = 30 * time.Second
	defaultScale          = 1.0
	defaultCaptureScale   = 2.0
	defaultJPEGQuality    = 95
	defaultViewportWidth  = 900
	defaultViewportHeight = 1200
)

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	// DefaultTimeout for rendering operations. Zero uses 30s; negative disables it.
	DefaultTimeout time.Duration
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional)
	// If empty, chromedp will launch a new browser instance
	RemoteURL string
	// Headless mode (default: true)
	Headless bool
	// DisableGPU disables GPU hardware acceleration (default: true for server environments)
	DisableGPU bool
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Scale for the print path (default: 1.0)
	Scale float64
	// ViewportWidth and ViewportHeight size the window pages are laid out in
	ViewportWidth  int64
	ViewportHeight int64
	// Logger for debug output
	Logger *zap.Logger
}

// ChromedpRenderer renders HTML through the Chrome DevTools Protocol.
// It serves both the raster capture and the native print path.
type ChromedpRenderer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a new chromedp-based renderer
func NewChromedpRenderer(config *ChromedpConfig) (*ChromedpRenderer, error) {
	if config == nil {
		config = &ChromedpConfig{}
	}

	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultChromeTimeout
	}
	if config.Scale == 0 {
		config.Scale = defaultScale
	}
	if config.ViewportWidth == 0 {
		config.ViewportWidth = defaultViewportWidth
	}
	if config.ViewportHeight == 0 {
		config.ViewportHeight = defaultViewportHeight
	}
	// Default to headless and disable GPU for server environments
	if !config.Headless {
		config.Headless = true
	}
	if !config.DisableGPU {
		config.DisableGPU = true
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	renderer := &ChromedpRenderer{
		config: config,
		logger: logger,
	}
	renderer.initAllocator()

	return renderer, nil
}

// initAllocator initializes the Chrome allocator
func (r *ChromedpRenderer) initAllocator() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", r.config.Headless),
		chromedp.Flag("disable-gpu", r.config.DisableGPU),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("font-render-hinting", "none"),
	)

	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	if r.config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
	} else {
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
}

// browser opens a tab with the optional timeout applied
func (r *ChromedpRenderer) browser(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}
	cancelTimeout := func() {}
	if timeout > 0 {
		ctx, cancelTimeout = context.WithTimeout(ctx, timeout)
	}

	// tie the tab to the allocator and to the caller's context
	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	stop := context.AfterFunc(ctx, browserCancel)
	return browserCtx, func() {
		stop()
		browserCancel()
		cancelTimeout()
	}
}

// loadHTML navigates to a blank page and replaces its document
func loadHTML(html string) chromedp.Action {
	return chromedp.Tasks{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
	}
}

// Render converts HTML content to a paginated PDF using print styles
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}

	startTime := time.Now()
	browserCtx, cancel := r.browser(ctx, req.Timeout)
	defer cancel()

	params := r.buildPrintParams(req)
	var pdfData []byte

	err := chromedp.Run(browserCtx,
		loadHTML(req.HTML),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(params.printBackground).
				WithPaperWidth(params.paperWidth).
				WithPaperHeight(params.paperHeight).
				WithMarginTop(params.marginTop).
				WithMarginRight(params.marginRight).
				WithMarginBottom(params.marginBottom).
				WithMarginLeft(params.marginLeft).
				WithScale(params.scale).
				WithLandscape(params.landscape).
				WithPreferCSSPageSize(params.preferCSSPageSize).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		return nil, r.wrapRunError(ErrCodeRenderFailed, "PDF rendering", err)
	}
	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	pageCount := estimatePageCount(pdfData)
	renderDuration := time.Since(startTime)

	r.logger.Info("PDF rendered successfully",
		zap.Int("bytes", len(pdfData)),
		zap.Int("pages", pageCount),
		zap.Duration("duration", renderDuration))

	return &RenderResult{
		PDFData:        pdfData,
		PageCount:      pageCount,
		RenderDuration: renderDuration,
	}, nil
}

// Capture takes a JPEG screenshot of a single element over an opaque white
// backdrop at the requested device scale.
func (r *ChromedpRenderer) Capture(ctx context.Context, req *CaptureRequest) (*Raster, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "capture request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if req.ElementID == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "element id is required", nil)
	}

	scale := req.Scale
	if scale <= 0 {
		scale = defaultCaptureScale
	}
	quality := req.Quality
	if quality <= 0 || quality > 100 {
		quality = defaultJPEGQuality
	}

	startTime := time.Now()
	browserCtx, cancel := r.browser(ctx, req.Timeout)
	defer cancel()

	selector := "#" + req.ElementID
	var box *dom.BoxModel
	var data []byte

	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(r.config.ViewportWidth, r.config.ViewportHeight),
		emulation.SetDefaultBackgroundColorOverride().WithColor(&cdp.RGBA{R: 255, G: 255, B: 255, A: 1}),
		loadHTML(req.HTML),
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.Dimensions(selector, &box, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			clip, err := clipFromBox(box, scale)
			if err != nil {
				return err
			}
			data, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatJpeg).
				WithQuality(int64(quality)).
				WithClip(clip).
				WithCaptureBeyondViewport(true).
				WithFromSurface(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, r.wrapRunError(ErrCodeCaptureFailed, "raster capture", err)
	}

	raster, err := decodeRaster(data)
	if err != nil {
		return nil, err
	}

	r.logger.Info("element captured",
		zap.String("element", req.ElementID),
		zap.Int("width", raster.Width),
		zap.Int("height", raster.Height),
		zap.Int("bytes", len(raster.Data)),
		zap.Duration("duration", time.Since(startTime)))

	return raster, nil
}

func (r *ChromedpRenderer) wrapRunError(code, what string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewRenderError(ErrCodeRenderTimeout, what+" timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewRenderError(ErrCodeRenderTimeout, what+" was cancelled", err)
	}
	r.logger.Error("chromedp execution failed", zap.String("stage", what), zap.Error(err))
	return NewRenderError(code, "chromedp "+what+" failed", err)
}

// clipFromBox turns an element's border box into a screenshot clip
func clipFromBox(box *dom.BoxModel, scale float64) (*page.Viewport, error) {
	if box == nil || len(box.Border) < 2 || box.Width == 0 || box.Height == 0 {
		return nil, NewRenderError(ErrCodeCaptureFailed, "element has no layout box", nil)
	}
	return &page.Viewport{
		X:      box.Border[0],
		Y:      box.Border[1],
		Width:  float64(box.Width),
		Height: float64(box.Height),
		Scale:  scale,
	}, nil
}

// decodeRaster reads the pixel size of captured image data
func decodeRaster(data []byte) (*Raster, error) {
	if len(data) == 0 {
		return nil, NewRenderError(ErrCodeInvalidImage, "captured image is empty", nil)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidImage, "captured image cannot be decoded", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, NewRenderError(ErrCodeInvalidImage, "captured image has zero size", nil)
	}
	raster := &Raster{Data: data, Width: cfg.Width, Height: cfg.Height, Format: ImageFormatJPEG}
	if format == "png" {
		raster.Format = ImageFormatPNG
	}
	return raster, nil
}

// printParams holds the parameters for PDF printing
type printParams struct {
	paperWidth        float64
	paperHeight       float64
	marginTop         float64
	marginRight       float64
	marginBottom      float64
	marginLeft        float64
	scale             float64
	landscape         bool
	printBackground   bool
	preferCSSPageSize bool
}

// buildPrintParams constructs the print parameters from the render request
func (r *ChromedpRenderer) buildPrintParams(req *RenderRequest) *printParams {
	params := &printParams{
		scale:             r.config.Scale,
		printBackground:   true,
		preferCSSPageSize: true,
	}

	// Chrome wants inches and applies orientation itself
	width, height := req.Page.Size.Dimensions()
	params.paperWidth = mmToInches(width)
	params.paperHeight = mmToInches(height)
	params.landscape = req.Page.Orientation == printing.OrientationLandscape

	params.marginTop = mmToInches(req.Margins.Top)
	params.marginRight = mmToInches(req.Margins.Right)
	params.marginBottom = mmToInches(req.Margins.Bottom)
	params.marginLeft = mmToInches(req.Margins.Left)

	return params
}

// estimatePageCount counts page objects in raw PDF data
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page")) - bytes.Count(pdfData, []byte("/Type /Pages"))
	if count < 1 {
		count = bytes.Count(pdfData, []byte("/Type/Page")) - bytes.Count(pdfData, []byte("/Type/Pages"))
	}
	if count < 1 {
		return 1
	}
	return count
}

// Close releases resources held by the renderer
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// mmToInches converts millimeters to inches
func mmToInches(mm float64) float64 {
	return mm / 25.4
}

var (
	_ PDFRenderer    = (*ChromedpRenderer)(nil)
	_ RasterCapturer = (*ChromedpRenderer)(nil)
)
