package printing

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/generatordok/backend/internal/domain/document"
	"github.com/generatordok/backend/internal/domain/theme"
)

func newTestComposer(t *testing.T) *Composer {
	t.Helper()
	c, err := NewComposer(NewTemplateEngine())
	require.NoError(t, err)
	return c
}

func sampleReceipt() *document.ReceiptData {
	return &document.ReceiptData{
		Number:       "KW-001",
		Date:         time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC),
		CustomerName: "Budi Santoso",
		Items: []document.LineItem{
			{Description: "Widget", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100000)},
		},
	}
}

func sampleInvoice() *document.InvoiceData {
	return &document.InvoiceData{
		Number:              "INV-9",
		Date:                time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
		DueDate:             time.Date(2026, time.October, 31, 0, 0, 0, 0, time.UTC),
		PaymentTerms:        document.PaymentTermsNet30,
		BillToName:          "PT Maju Jaya",
		BillToAddress:       "Jl. Sudirman 1\nJakarta",
		Items:               []document.LineItem{{Description: "Jasa", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1000)}},
		TaxRatePercent:      decimal.NewFromInt(10),
		DiscountRatePercent: decimal.NewFromInt(10),
		Notes:               "Transfer ke BCA",
	}
}

func TestComposer_Receipt(t *testing.T) {
	c := newTestComposer(t)
	var deco theme.Decoration
	deco.SetStamp(theme.StampConfig{
		Variant: theme.VariantCircular, MainText: "ACME", Color: theme.ColorBlue, Size: theme.SizeMedium,
	})

	html, err := c.Compose(sampleReceipt(), deco)

	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, "KWITANSI")
	assert.Contains(t, out, "Informasi Pelanggan")
	assert.Contains(t, out, "No. Kwitansi: <span class=\"value\">KW-001</span>")
	assert.Contains(t, out, "19 Oktober 2026")
	assert.Contains(t, out, "Rp 100.000")
	assert.Contains(t, out, "kontak@generatordok.com")
	assert.Contains(t, out, "Terima kasih atas kepercayaan Anda!")
	assert.Contains(t, out, `<div class="stamp-container">`)
	assert.Contains(t, out, `data-stamp="circular"`)
	assert.Contains(t, out, "ACME")
	assert.Less(t, strings.Index(out, "stamp-container"), strings.Index(out, "clear-both"))
	assert.Less(t, strings.Index(out, "clear-both"), strings.Index(out, "doc-footer"))
	assert.NotContains(t, out, `class="notes"`)
}

func TestComposer_Invoice(t *testing.T) {
	c := newTestComposer(t)

	html, err := c.Compose(sampleInvoice(), theme.Decoration{})

	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, "FAKTUR")
	assert.Contains(t, out, "Jatuh Tempo:")
	assert.Contains(t, out, "30 Hari")
	assert.Contains(t, out, "Ditagih Kepada:")
	assert.Contains(t, out, "Subtotal:</span><span>Rp 1.000</span>")
	assert.Contains(t, out, "Diskon (10%):</span><span>-Rp 100</span>")
	assert.Contains(t, out, "Pajak (10%):</span><span>Rp 90</span>")
	assert.Contains(t, out, "TOTAL:</span><span>Rp 990</span>")
	assert.Contains(t, out, "Catatan:")
	assert.NotContains(t, out, "stamp-container")
}

func TestComposer_InvoiceHidesZeroRates(t *testing.T) {
	c := newTestComposer(t)
	inv := sampleInvoice()
	inv.TaxRatePercent = decimal.Zero
	inv.DiscountRatePercent = decimal.Zero
	inv.Notes = ""

	html, err := c.Compose(inv, theme.Decoration{})

	require.NoError(t, err)
	out := string(html)
	assert.NotContains(t, out, "Diskon")
	assert.NotContains(t, out, "Pajak")
	assert.NotContains(t, out, "Catatan:")
}

func TestComposer_Note(t *testing.T) {
	c := newTestComposer(t)
	note := &document.NoteData{
		Number:  "ND-7",
		Date:    time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		To:      "Seluruh Staf",
		Subject: "Libur Nasional",
		Message: "Kantor tutup.\nTerima kasih.",
	}

	html, err := c.Compose(note, theme.Decoration{})

	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, "NOTA DINAS")
	assert.Contains(t, out, "KEPADA:")
	assert.Contains(t, out, "DARI:</span><p class=\"memo-value\">GeneratorDok</p>")
	assert.Contains(t, out, "2 Maret 2026")
	assert.Contains(t, out, "Kantor tutup.\nTerima kasih.")
	assert.Contains(t, out, "Dokumen ini dibuat secara elektronik dan sah tanpa tanda tangan.")
	assert.NotContains(t, out, "kontak@generatordok.com")
}

func TestComposer_Idempotent(t *testing.T) {
	c := newTestComposer(t)
	var deco theme.Decoration
	deco.SetStamp(theme.DefaultStampConfig())
	deco.Background = theme.BackgroundWatermark

	first, err := c.Compose(sampleInvoice(), deco)
	require.NoError(t, err)
	second, err := c.Compose(sampleInvoice(), deco)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComposer_EscapesUserText(t *testing.T) {
	c := newTestComposer(t)
	r := sampleReceipt()
	r.CustomerName = "<script>alert(1)</script>"

	html, err := c.Compose(r, theme.Decoration{})

	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>")
}

func TestComposer_NilDocument(t *testing.T) {
	c := newTestComposer(t)
	_, err := c.Compose(nil, theme.Decoration{})
	assert.Error(t, err)
}

func TestComposer_Page(t *testing.T) {
	c := newTestComposer(t)
	fragment, err := c.Compose(sampleReceipt(), theme.Decoration{})
	require.NoError(t, err)

	t.Run("screen with background", func(t *testing.T) {
		page, err := c.Page(&PageRequest{
			DocType:    document.DocTypeReceipt,
			Fragment:   fragment,
			Background: theme.BackgroundClassic,
			Mode:       StyleScreen,
		})
		require.NoError(t, err)
		assert.Contains(t, page, `<div id="receipt-preview" class="document-surface bg-klasik" data-background="classic">`)
		assert.Contains(t, page, "<title>KWITANSI</title>")
		assert.NotContains(t, page, "@page")
	})

	t.Run("capture", func(t *testing.T) {
		page, err := c.Page(&PageRequest{DocType: document.DocTypeReceipt, Fragment: fragment, Mode: StyleCapture})
		require.NoError(t, err)
		assert.Contains(t, page, `<body class="capture">`)
		assert.Contains(t, page, `class="document-surface" data-background=""`)
	})

	t.Run("print", func(t *testing.T) {
		page, err := c.Page(&PageRequest{DocType: document.DocTypeReceipt, Fragment: fragment, Mode: StylePrint, Title: PrintTitle})
		require.NoError(t, err)
		assert.Contains(t, page, "@page { size: A4; margin: 20mm; }")
		assert.Contains(t, page, "print-color-adjust: exact")
		assert.Contains(t, page, "<title>Cetak Dokumen</title>")
	})
}
