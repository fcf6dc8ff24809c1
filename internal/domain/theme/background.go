package theme

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Background is a decorative motif applied to a whole document surface
type Background string

const (
	BackgroundNone         Background = ""
	BackgroundMinimalist   Background = "minimalist"
	BackgroundProfessional Background = "professional"
	BackgroundModern       Background = "modern"
	BackgroundClassic      Background = "classic"
	BackgroundGeometric    Background = "geometric"
	BackgroundWatermark    Background = "watermark"
)

// IsValid checks if the Background is a valid theme. None is not a theme.
func (b Background) IsValid() bool {
	switch b {
	case BackgroundMinimalist, BackgroundProfessional, BackgroundModern,
		BackgroundClassic, BackgroundGeometric, BackgroundWatermark:
		return true
	}
	return false
}

// IsNone reports whether no background is selected
func (b Background) IsNone() bool {
	return b == BackgroundNone
}

// String returns the string representation of Background
func (b Background) String() string {
	return string(b)
}

// slug is the Indonesian identifier used in style class names
func (b Background) slug() string {
	switch b {
	case BackgroundMinimalist:
		return "minimalis"
	case BackgroundProfessional:
		return "profesional"
	case BackgroundModern:
		return "modern"
	case BackgroundClassic:
		return "klasik"
	case BackgroundGeometric:
		return "geometris"
	case BackgroundWatermark:
		return "watermark"
	default:
		return ""
	}
}

// CSSClass returns the style class of the theme, or "" for none
func (b Background) CSSClass() string {
	if s := b.slug(); s != "" {
		return "bg-" + s
	}
	return ""
}

// DisplayName returns the name shown in the background picker
func (b Background) DisplayName() string {
	return cases.Title(language.Indonesian).String(b.slug())
}

// AllBackgrounds returns all valid Background themes
func AllBackgrounds() []Background {
	return []Background{
		BackgroundMinimalist, BackgroundProfessional, BackgroundModern,
		BackgroundClassic, BackgroundGeometric, BackgroundWatermark,
	}
}

// ParseBackground parses a background selector. Blank and "none" select no background.
func ParseBackground(s string) (Background, error) {
	n := normalize(s)
	if n == "" || n == "none" {
		return BackgroundNone, nil
	}
	b := Background(n)
	if b.IsValid() {
		return b, nil
	}
	// accept the style class or its Indonesian slug as well
	for _, candidate := range AllBackgrounds() {
		if n == candidate.slug() || n == candidate.CSSClass() {
			return candidate, nil
		}
	}
	return BackgroundNone, unknownSelector("background", s)
}

// Decorator is a surface that can carry at most one background theme
type Decorator interface {
	ClearDecoration()
	SetDecoration(bg Background)
}

// ApplyBackground clears any previous theme on the surface, then sets bg.
// Passing BackgroundNone only clears. Themes are mutually exclusive.
// The caller recomposes the surface afterwards.
func ApplyBackground(surface Decorator, bg Background) error {
	if !bg.IsNone() && !bg.IsValid() {
		return unknownSelector("background", string(bg))
	}
	surface.ClearDecoration()
	if !bg.IsNone() {
		surface.SetDecoration(bg)
	}
	return nil
}
