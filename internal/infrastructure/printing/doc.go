// Package printing provides the rendering side of document export.
//
// This package contains:
//   - Composer, which assembles documents from embedded html/template layouts
//   - ChromedpRenderer, which captures an element as a JPEG raster and also
//     renders print-styled HTML to PDF (the native print path)
//   - GofpdfWriter, which places a raster on a single PDF page
//   - PDFStorage and its file system implementation for exported files
//
// Example usage:
//
//	composer, err := NewComposer(NewTemplateEngine())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fragment, err := composer.Compose(receipt, theme.Decoration{})
//	page, err := composer.Page(&PageRequest{
//	    DocType:  document.DocTypeReceipt,
//	    Fragment: fragment,
//	    Mode:     StyleCapture,
//	})
//	raster, err := renderer.Capture(ctx, &CaptureRequest{
//	    HTML:      page,
//	    ElementID: document.DocTypeReceipt.SurfaceID(),
//	    Scale:     2,
//	    Quality:   95,
//	})
package printing
