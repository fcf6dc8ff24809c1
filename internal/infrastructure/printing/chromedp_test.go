package printing

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/generatordok/backend/internal/domain/printing"
)

func TestChromedpConfig_Defaults(t *testing.T) {
	config := &ChromedpConfig{}

	assert.Equal(t, time.Duration(0), config.DefaultTimeout)
	assert.Empty(t, config.RemoteURL)
	assert.False(t, config.Headless)
	assert.False(t, config.NoSandbox)
	assert.Equal(t, 0.0, config.Scale)
}

func TestBuildPrintParams_A4Portrait(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.buildPrintParams(&RenderRequest{
		HTML:    "<html>test</html>",
		Page:    printing.A4Portrait(),
		Margins: printing.PrintMargins(),
	})

	assert.InDelta(t, mmToInches(210), params.paperWidth, 0.01)
	assert.InDelta(t, mmToInches(297), params.paperHeight, 0.01)
	assert.InDelta(t, mmToInches(20), params.marginTop, 0.001)
	assert.False(t, params.landscape)
	assert.True(t, params.printBackground)
	assert.True(t, params.preferCSSPageSize)
}

func TestBuildPrintParams_Landscape(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.buildPrintParams(&RenderRequest{
		Page: printing.Page{Size: printing.PaperSizeA5, Orientation: printing.OrientationLandscape},
	})

	assert.True(t, params.landscape)
	assert.InDelta(t, mmToInches(148), params.paperWidth, 0.01)
}

func TestBuildPrintParams_WithMargins(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	margins, err := printing.NewMargins(10, 15, 20, 25)
	require.NoError(t, err)
	params := r.buildPrintParams(&RenderRequest{Page: printing.A4Portrait(), Margins: margins})

	assert.InDelta(t, mmToInches(10), params.marginTop, 0.001)
	assert.InDelta(t, mmToInches(15), params.marginRight, 0.001)
	assert.InDelta(t, mmToInches(20), params.marginBottom, 0.001)
	assert.InDelta(t, mmToInches(25), params.marginLeft, 0.001)
}

func TestClipFromBox(t *testing.T) {
	box := &dom.BoxModel{
		Border: dom.Quad{8, 16, 808, 16, 808, 1016, 8, 1016},
		Width:  800,
		Height: 1000,
	}

	clip, err := clipFromBox(box, 2)

	require.NoError(t, err)
	assert.Equal(t, 8.0, clip.X)
	assert.Equal(t, 16.0, clip.Y)
	assert.Equal(t, 800.0, clip.Width)
	assert.Equal(t, 1000.0, clip.Height)
	assert.Equal(t, 2.0, clip.Scale)

	_, err = clipFromBox(nil, 2)
	assert.Error(t, err)
	_, err = clipFromBox(&dom.BoxModel{Border: dom.Quad{0, 0}}, 2)
	assert.Error(t, err)
}

func TestDecodeRaster(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))

	raster, err := decodeRaster(buf.Bytes())

	require.NoError(t, err)
	assert.Equal(t, 40, raster.Width)
	assert.Equal(t, 20, raster.Height)
	assert.Equal(t, ImageFormatJPEG, raster.Format)

	_, err = decodeRaster(nil)
	assert.Error(t, err)
	_, err = decodeRaster([]byte("not an image"))
	assert.Error(t, err)
}

func TestEstimatePageCount(t *testing.T) {
	assert.Equal(t, 1, estimatePageCount([]byte("%PDF-1.4")))
	pdf := []byte("<< /Type /Pages /Count 2 >> << /Type /Page >> << /Type /Page >>")
	assert.Equal(t, 2, estimatePageCount(pdf))
}

func TestChromedpRenderer_RejectsEmptyInput(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{}}

	_, err := r.Render(t.Context(), &RenderRequest{HTML: "  "})
	assert.Error(t, err)

	_, err = r.Capture(t.Context(), &CaptureRequest{HTML: "<p>x</p>"})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
}
