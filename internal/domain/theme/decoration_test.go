package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoration_StampLifecycle(t *testing.T) {
	var d Decoration
	assert.False(t, d.HasStamp())
	assert.Empty(t, d.StampHTML())

	cfg := DefaultStampConfig()
	d.SetStamp(cfg)
	cfg.MainText = "CHANGED"

	require.True(t, d.HasStamp())
	assert.Equal(t, "NAMA PERUSAHAAN", d.Stamp.MainText, "stored config is a copy")
	assert.Contains(t, string(d.StampHTML()), "NAMA PERUSAHAAN")

	d.ClearStamp()
	assert.False(t, d.HasStamp())
}

func TestDecoration_BackgroundIndependentOfStamp(t *testing.T) {
	var d Decoration
	d.SetStamp(DefaultStampConfig())

	require.NoError(t, ApplyBackground(&d, BackgroundGeometric))
	assert.Equal(t, BackgroundGeometric, d.Background)
	assert.True(t, d.HasStamp())

	d.ClearStamp()
	assert.Equal(t, BackgroundGeometric, d.Background)
}
