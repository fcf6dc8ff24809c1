package document

import (
	"strings"
	"time"
)

// fileNameReplacer strips path separators and quotes from numbers like
// "INV/2026/001" so they stay a single path segment and a safe header value.
var fileNameReplacer = strings.NewReplacer("/", "-", `\`, "-", "..", ".", `"`, "")

// ExportFileName builds "{label}-{number}.{ext}". A blank number falls back to
// the UTC calendar date of now as YYYY-MM-DD.
func ExportFileName(doc Document, ext string, now time.Time) string {
	number := strings.TrimSpace(doc.DocumentNumber())
	if number == "" {
		number = now.UTC().Format(DateLayout)
	}
	return doc.Type().ExportLabel() + "-" + fileNameReplacer.Replace(number) + "." + ext
}
