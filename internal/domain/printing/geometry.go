package printing

// Placement is where the captured image lands on the page, in millimeters
type Placement struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FitImage scales an image of the given pixel size onto the page.
//
// The image first takes the full printable width; if it is then taller than
// the printable height it is scaled down to that height instead. The aspect
// ratio is kept, the image is centred horizontally and sits at the top margin.
// Content never spans more than one page.
func FitImage(page Page, margins Margins, pixelWidth, pixelHeight int) Placement {
	pageW, pageH := page.Dimensions()
	maxW := pageW - margins.Left - margins.Right
	maxH := pageH - margins.Top - margins.Bottom
	if pixelWidth <= 0 || pixelHeight <= 0 || maxW <= 0 || maxH <= 0 {
		return Placement{X: margins.Left, Y: margins.Top}
	}

	ratio := float64(pixelWidth) / float64(pixelHeight)
	w := maxW
	h := w / ratio
	if h > maxH {
		h = maxH
		w = h * ratio
	}
	return Placement{
		X:      (pageW - w) / 2,
		Y:      margins.Top,
		Width:  w,
		Height: h,
	}
}
