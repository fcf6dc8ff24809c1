// Package theme renders certification stamps and manages background motifs
// for the composed documents.
package theme

import (
	"fmt"
	"strings"

	"github.com/generatordok/backend/internal/domain/shared"
)

// Variant is the visual layout of a stamp
type Variant string

const (
	VariantCircular    Variant = "circular"
	VariantRectangular Variant = "rectangular"
	VariantSquare      Variant = "square"
	VariantOfficial    Variant = "official"
	VariantVintage     Variant = "vintage"
	VariantShield      Variant = "shield"
	VariantHexagon     Variant = "hexagon"
	VariantStarred     Variant = "starred"
)

// IsValid checks if the Variant is a valid value
func (v Variant) IsValid() bool {
	switch v {
	case VariantCircular, VariantRectangular, VariantSquare, VariantOfficial,
		VariantVintage, VariantShield, VariantHexagon, VariantStarred:
		return true
	}
	return false
}

// String returns the string representation of Variant
func (v Variant) String() string {
	return string(v)
}

// DisplayName returns the Indonesian name shown in the template picker
func (v Variant) DisplayName() string {
	switch v {
	case VariantCircular:
		return "Lingkaran"
	case VariantRectangular:
		return "Persegi Panjang"
	case VariantSquare:
		return "Persegi"
	case VariantOfficial:
		return "Resmi"
	case VariantVintage:
		return "Vintage"
	case VariantShield:
		return "Perisai"
	case VariantHexagon:
		return "Heksagon"
	case VariantStarred:
		return "Bintang"
	default:
		return string(v)
	}
}

// Elongated reports whether the variant uses the width-only size table
func (v Variant) Elongated() bool {
	return v == VariantRectangular || v == VariantOfficial
}

// AllVariants returns all valid Variant values
func AllVariants() []Variant {
	return []Variant{
		VariantCircular, VariantRectangular, VariantSquare, VariantOfficial,
		VariantVintage, VariantShield, VariantHexagon, VariantStarred,
	}
}

// ColorTheme selects the stamp palette
type ColorTheme string

const (
	ColorBlue   ColorTheme = "blue"
	ColorRed    ColorTheme = "red"
	ColorGreen  ColorTheme = "green"
	ColorPurple ColorTheme = "purple"
	ColorBlack  ColorTheme = "black"
)

// AllColorThemes returns all valid ColorTheme values
func AllColorThemes() []ColorTheme {
	return []ColorTheme{ColorBlue, ColorRed, ColorGreen, ColorPurple, ColorBlack}
}

// SizeClass selects the stamp dimensions
type SizeClass string

const (
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
)

// AllSizeClasses returns all valid SizeClass values
func AllSizeClasses() []SizeClass {
	return []SizeClass{SizeSmall, SizeMedium, SizeLarge}
}

// Palette is the fixed set of colors derived from a ColorTheme
type Palette struct {
	Border string
	Text   string
	// RGB is the "r, g, b" triple used for translucent fills
	RGB    string
	Stroke string
	Fill   string
}

var palettes = map[ColorTheme]Palette{
	ColorBlue:   {Border: "#2563eb", Text: "#2563eb", RGB: "59, 130, 246", Stroke: "#2563eb", Fill: "#3b82f6"},
	ColorRed:    {Border: "#dc2626", Text: "#dc2626", RGB: "239, 68, 68", Stroke: "#dc2626", Fill: "#ef4444"},
	ColorGreen:  {Border: "#16a34a", Text: "#16a34a", RGB: "34, 197, 94", Stroke: "#16a34a", Fill: "#22c55e"},
	ColorPurple: {Border: "#9333ea", Text: "#9333ea", RGB: "168, 85, 247", Stroke: "#9333ea", Fill: "#a855f7"},
	ColorBlack:  {Border: "#1f2937", Text: "#1f2937", RGB: "55, 65, 81", Stroke: "#000000", Fill: "#374151"},
}

// Dimensions is the box size of a stamp in CSS pixels.
// Height is zero for elongated variants, which size to their content.
type Dimensions struct {
	Width    int
	Height   int
	TextSize int
}

var boxSizes = map[SizeClass]Dimensions{
	SizeSmall:  {Width: 80, Height: 80, TextSize: 12},
	SizeMedium: {Width: 96, Height: 96, TextSize: 14},
	SizeLarge:  {Width: 112, Height: 112, TextSize: 16},
}

var elongatedSizes = map[SizeClass]Dimensions{
	SizeSmall:  {Width: 96, TextSize: 12},
	SizeMedium: {Width: 112, TextSize: 14},
	SizeLarge:  {Width: 128, TextSize: 16},
}

// PaletteFor returns the palette of a color theme.
// An unknown theme is a programming error; boundaries use ParseColorTheme.
func PaletteFor(c ColorTheme) Palette {
	p, ok := palettes[c]
	if !ok {
		panic(fmt.Sprintf("theme: unknown color theme %q", c))
	}
	return p
}

// DimensionsFor returns the box size for a size class and variant.
// An unknown size class is a programming error; boundaries use ParseSizeClass.
func DimensionsFor(s SizeClass, v Variant) Dimensions {
	table := boxSizes
	if v.Elongated() {
		table = elongatedSizes
	}
	dim, ok := table[s]
	if !ok {
		panic(fmt.Sprintf("theme: unknown size class %q", s))
	}
	return dim
}

// ParseVariant parses a stamp variant selector
func ParseVariant(s string) (Variant, error) {
	v := Variant(normalize(s))
	if !v.IsValid() {
		return "", unknownSelector("stamp template", s)
	}
	return v, nil
}

// ParseColorTheme parses a color selector
func ParseColorTheme(s string) (ColorTheme, error) {
	c := ColorTheme(normalize(s))
	if _, ok := palettes[c]; !ok {
		return "", unknownSelector("stamp color", s)
	}
	return c, nil
}

// ParseSizeClass parses a size selector
func ParseSizeClass(s string) (SizeClass, error) {
	sz := SizeClass(normalize(s))
	if _, ok := boxSizes[sz]; !ok {
		return "", unknownSelector("stamp size", s)
	}
	return sz, nil
}

// StampConfig fully describes a stamp
type StampConfig struct {
	Variant    Variant    `json:"template"`
	MainText   string     `json:"main_text"`
	SubText    string     `json:"sub_text"`
	StatusText string     `json:"status_text"`
	Color      ColorTheme `json:"color"`
	Size       SizeClass  `json:"size"`
}

// DefaultStampConfig prefills the stamp editor
func DefaultStampConfig() StampConfig {
	return StampConfig{
		Variant:    VariantCircular,
		MainText:   "NAMA PERUSAHAAN",
		SubText:    "Alamat Perusahaan",
		StatusText: "LUNAS",
		Color:      ColorBlue,
		Size:       SizeMedium,
	}
}

// NewStampConfig validates raw selectors and builds a config
func NewStampConfig(variant, mainText, subText, statusText, color, size string) (StampConfig, error) {
	v, err := ParseVariant(variant)
	if err != nil {
		return StampConfig{}, err
	}
	c, err := ParseColorTheme(color)
	if err != nil {
		return StampConfig{}, err
	}
	sz, err := ParseSizeClass(size)
	if err != nil {
		return StampConfig{}, err
	}
	return StampConfig{
		Variant:    v,
		MainText:   strings.TrimSpace(mainText),
		SubText:    strings.TrimSpace(subText),
		StatusText: strings.TrimSpace(statusText),
		Color:      c,
		Size:       sz,
	}, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func unknownSelector(kind, value string) error {
	return fmt.Errorf("%w: %s %q", shared.ErrUnknownThemeSelector, kind, value)
}
