package printing

import (
	"bytes"
	"context"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

const pdfCreator = "GeneratorDok"

// GofpdfWriter writes single-page PDFs with one placed image
type GofpdfWriter struct {
	logger *zap.Logger
}

// NewGofpdfWriter creates a page writer
func NewGofpdfWriter(logger *zap.Logger) *GofpdfWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GofpdfWriter{logger: logger}
}

// WritePage places the raster at the given geometry on a fresh page
func (w *GofpdfWriter) WritePage(ctx context.Context, req *WriteRequest) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeWriteFailed, "operation cancelled", err)
	}
	if req == nil || req.Raster == nil || len(req.Raster.Data) == 0 {
		return nil, NewRenderError(ErrCodeInvalidImage, "page request has no image", nil)
	}

	width, height := req.Page.Dimensions()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(pdfCreator, true)
	if req.Title != "" {
		pdf.SetTitle(req.Title, true)
	}
	pdf.AddPage()

	imageType := "JPG"
	if req.Raster.Format == ImageFormatPNG {
		imageType = "PNG"
	}
	opts := gofpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader("capture", opts, bytes.NewReader(req.Raster.Data))

	p := req.Placement
	pdf.ImageOptions("capture", p.X, p.Y, p.Width, p.Height, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeWriteFailed, "failed to write PDF", err)
	}

	w.logger.Debug("page written",
		zap.Float64("x", p.X),
		zap.Float64("y", p.Y),
		zap.Float64("width", p.Width),
		zap.Float64("height", p.Height),
		zap.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

var _ PageWriter = (*GofpdfWriter)(nil)
