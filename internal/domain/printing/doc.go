// Package printing contains the page model of the export pipeline:
// paper sizes, margins and the geometry that fits a captured raster onto
// a single page.
package printing
