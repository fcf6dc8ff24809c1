package theme

import (
	"bytes"
	"fmt"
	"html/template"
)

// ShieldPath is the outline shared by both layers of the shield stamp
const ShieldPath = "M50 0 L100 10 L100 60 L50 100 L0 60 L0 10 Z"

const stampTemplateText = `
{{- define "text" -}}
<div class="stamp-text{{with .TextClass}} {{.}}{{end}}">
<div class="stamp-main">{{.Main}}</div>
{{- if .Sub}}
<div class="stamp-sub">{{.Sub}}</div>
{{- end}}
{{- if .Status}}
<div class="stamp-status">{{if .Starred}}<span class="stamp-status-star">{{.Status}}</span>{{else}}{{.Status}}{{end}}</div>
{{- end}}
</div>
{{- end -}}

{{- define "official-text" -}}
<div class="stamp-text">
<div class="stamp-main stamp-rule-below">{{.Main}}</div>
{{- if .Sub}}
<div class="stamp-sub">{{.Sub}}</div>
{{- end}}
{{- if .Status}}
<div class="stamp-status stamp-rule-above">{{.Status}}</div>
{{- end}}
</div>
{{- end -}}

{{- define "circular" -}}
<div class="stamp stamp-circular" data-stamp="circular" style="{{.BoxStyle}}">{{template "text" .}}</div>
{{- end -}}

{{- define "rectangular" -}}
<div class="stamp stamp-rectangular" data-stamp="rectangular" style="{{.BoxStyle}}">{{template "text" .}}</div>
{{- end -}}

{{- define "square" -}}
<div class="stamp stamp-square" data-stamp="square" style="{{.BoxStyle}}">{{template "text" .}}</div>
{{- end -}}

{{- define "official" -}}
<div class="stamp stamp-official" data-stamp="official" style="{{.BoxStyle}}">{{template "official-text" .}}</div>
{{- end -}}

{{- define "vintage" -}}
<div class="stamp stamp-circular stamp-vintage" data-stamp="vintage" style="{{.BoxStyle}}">{{template "text" .}}</div>
{{- end -}}

{{- define "shield" -}}
<div class="stamp stamp-shield" data-stamp="shield" style="{{.BoxStyle}}">
<svg class="stamp-shield-outline" viewBox="0 0 100 100" preserveAspectRatio="xMidYMid meet">
<path d="{{.Path}}" fill="{{.Palette.Fill}}" fill-opacity="0.1"></path>
<path d="{{.Path}}" fill="none" stroke="{{.Palette.Stroke}}" stroke-width="5"></path>
</svg>
<div class="stamp-shield-body">{{template "text" .}}</div>
</div>
{{- end -}}

{{- define "hexagon" -}}
<div class="stamp stamp-hexagon" data-stamp="hexagon" style="{{.BoxStyle}}"><div class="stamp-hexagon-body">{{template "text" .}}</div></div>
{{- end -}}

{{- define "starred" -}}
<div class="stamp stamp-circular stamp-starred" data-stamp="starred" style="{{.BoxStyle}}">{{template "text" .}}</div>
{{- end -}}
`

var stampTemplates = template.Must(template.New("stamp").Parse(stampTemplateText))

type stampView struct {
	Main      string
	Sub       string
	Status    string
	Starred   bool
	TextClass string
	Palette   Palette
	Path      string
	BoxStyle  template.CSS
}

// RenderStamp returns the markup of a stamp. It is pure: the same inputs
// always produce the same fragment. An unknown variant yields an empty
// fragment; an unknown color or size panics.
func RenderStamp(variant Variant, mainText, subText, statusText string, color ColorTheme, size SizeClass) template.HTML {
	if !variant.IsValid() {
		return ""
	}
	palette := PaletteFor(color)
	dim := DimensionsFor(size, variant)

	view := stampView{
		Main:     mainText,
		Sub:      subText,
		Status:   statusText,
		Starred:  variant == VariantStarred,
		Palette:  palette,
		Path:     ShieldPath,
		BoxStyle: boxStyle(variant, palette, dim),
	}
	if variant == VariantVintage {
		view.TextClass = "stamp-text-wide"
	}

	var buf bytes.Buffer
	if err := stampTemplates.ExecuteTemplate(&buf, string(variant), view); err != nil {
		panic(fmt.Sprintf("theme: render %s stamp: %v", variant, err))
	}
	return template.HTML(buf.String())
}

// Render renders the stamp described by the config
func (c StampConfig) Render() template.HTML {
	return RenderStamp(c.Variant, c.MainText, c.SubText, c.StatusText, c.Color, c.Size)
}

// Thumbnail renders the config at the small size used by form previews
func (c StampConfig) Thumbnail() template.HTML {
	return RenderStamp(c.Variant, c.MainText, c.SubText, c.StatusText, c.Color, SizeSmall)
}

// boxStyle builds the inline style from the fixed palette and size tables.
// Inputs are constants, so the result is marked as trusted CSS.
func boxStyle(v Variant, p Palette, dim Dimensions) template.CSS {
	var style string
	switch v {
	case VariantShield:
		style = fmt.Sprintf("color: %s;", p.Text)
	case VariantHexagon:
		style = fmt.Sprintf("color: %s; --stamp-bg-color: %s;", p.Text, p.RGB)
	default:
		style = fmt.Sprintf("border-color: %s; color: %s;", p.Border, p.Text)
	}
	if v == VariantOfficial {
		style += fmt.Sprintf(" --stamp-bg-color: %s;", p.RGB)
	}
	style += fmt.Sprintf(" width: %dpx;", dim.Width)
	if dim.Height > 0 {
		style += fmt.Sprintf(" height: %dpx;", dim.Height)
	}
	style += fmt.Sprintf(" font-size: %dpx;", dim.TextSize)
	return template.CSS(style)
}

// TemplateSample is one entry of the stamp template picker
type TemplateSample struct {
	Variant Variant       `json:"template"`
	Name    string        `json:"name"`
	Preview template.HTML `json:"preview"`
}

// TemplateCatalog renders every variant with sample text for the picker
func TemplateCatalog() []TemplateSample {
	variants := AllVariants()
	samples := make([]TemplateSample, 0, len(variants))
	for _, v := range variants {
		samples = append(samples, TemplateSample{
			Variant: v,
			Name:    v.DisplayName(),
			Preview: RenderStamp(v, "CONTOH", "Teks", "STATUS", ColorBlue, SizeSmall),
		})
	}
	return samples
}
