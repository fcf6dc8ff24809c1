package theme

import "html/template"

// Decoration is the visual state owned by one document type: an optional
// stamp and at most one background. The zero value means no stamp and no
// background.
type Decoration struct {
	Stamp      *StampConfig `json:"stamp,omitempty"`
	Background Background   `json:"background,omitempty"`
}

// ClearDecoration removes the background theme
func (d *Decoration) ClearDecoration() {
	d.Background = BackgroundNone
}

// SetDecoration sets the background theme
func (d *Decoration) SetDecoration(bg Background) {
	d.Background = bg
}

// SetStamp stores a copy of cfg
func (d *Decoration) SetStamp(cfg StampConfig) {
	d.Stamp = &cfg
}

// ClearStamp removes the stamp
func (d *Decoration) ClearStamp() {
	d.Stamp = nil
}

// HasStamp reports whether a stamp is configured
func (d Decoration) HasStamp() bool {
	return d.Stamp != nil
}

// StampHTML renders the configured stamp, or an empty fragment
func (d Decoration) StampHTML() template.HTML {
	if d.Stamp == nil {
		return ""
	}
	return d.Stamp.Render()
}

var _ Decorator = (*Decoration)(nil)
