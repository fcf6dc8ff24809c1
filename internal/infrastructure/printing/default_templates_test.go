package printing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/generatordok/backend/internal/domain/document"
)

func TestGetDefaultTemplates(t *testing.T) {
	templates := GetDefaultTemplates()
	require.Len(t, templates, len(document.AllDocTypes()))

	for _, tmpl := range templates {
		t.Run(tmpl.Name, func(t *testing.T) {
			content, err := LoadTemplateContent(tmpl.FilePath)
			require.NoError(t, err)
			assert.Contains(t, content, `data-document="`+tmpl.DocType.String()+`"`)
			assert.Contains(t, content, `{{template "stamp" .Stamp}}`)
		})
	}
}

func TestGetDefaultTemplateForDocType(t *testing.T) {
	tmpl := GetDefaultTemplateForDocType(document.DocTypeInvoice)
	require.NotNil(t, tmpl)
	assert.Equal(t, "templates/invoice.html", tmpl.FilePath)

	assert.Nil(t, GetDefaultTemplateForDocType(document.DocType("memo")))
}

func TestLoadTemplateContent_Stylesheets(t *testing.T) {
	screen, err := LoadTemplateContent(screenStylePath)
	require.NoError(t, err)
	assert.Contains(t, screen, ".stamp-hexagon")
	assert.Contains(t, screen, ".bg-watermark")

	printCSS, err := LoadTemplateContent(printStylePath)
	require.NoError(t, err)
	assert.Contains(t, printCSS, "@page { size: A4; margin: 20mm; }")

	_, err = LoadTemplateContent("templates/missing.html")
	assert.Error(t, err)
}
