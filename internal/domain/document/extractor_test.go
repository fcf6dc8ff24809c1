package document

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/generatordok/backend/internal/domain/shared"
)

func TestFilterItems(t *testing.T) {
	rows := []RawItem{
		{Description: "Kertas A4", Quantity: "2", Price: "45000"},
		{Description: "", Quantity: "1", Price: "1000"},
		{Description: "   ", Quantity: "1", Price: "1000"},
		{Description: "Gratis", Quantity: "1", Price: "0"},
		{Description: "Kosong", Quantity: "0", Price: "1000"},
		{Description: "Negatif", Quantity: "-1", Price: "1000"},
		{Description: "Bukan angka", Quantity: "abc", Price: "1000"},
		{Description: "  Tinta  ", Quantity: "1", Price: "75000"},
	}

	items := FilterItems(rows)

	require.Len(t, items, 2)
	assert.Equal(t, "Kertas A4", items[0].Description)
	assert.Equal(t, "  Tinta  ", items[1].Description, "descriptions are kept as entered")
	assert.True(t, d("75000").Equal(items[1].UnitPrice))
}

func TestFilterItems_ZeroPriceDropped(t *testing.T) {
	items := FilterItems([]RawItem{{Description: "Sample", Quantity: "3", Price: "0"}})
	assert.Empty(t, items)
}

func TestExtractReceipt(t *testing.T) {
	form := ReceiptForm{
		Number:       "KW-001",
		Date:         "2026-10-19",
		CustomerName: " Budi ",
		Items:        []RawItem{{Description: "Widget", Quantity: "1", Price: "100000"}},
		Notes:        "Lunas",
	}

	r, err := ExtractReceipt(form)

	require.NoError(t, err)
	assert.Equal(t, "KW-001", r.Number)
	assert.Equal(t, " Budi ", r.CustomerName)
	assert.Equal(t, time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC), r.Date)
	assert.Len(t, r.Items, 1)
	assert.Equal(t, DocTypeReceipt, r.Type())
}

func TestExtractReceipt_MissingFields(t *testing.T) {
	_, err := ExtractReceipt(ReceiptForm{Date: "19/10/2026"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"date":          "must be a date in YYYY-MM-DD format",
		"customer_name": "required",
	}, verr.Fields)
}

func TestExtractInvoice(t *testing.T) {
	form := InvoiceForm{
		Number:       "INV/2026/10",
		Date:         "2026-10-01",
		DueDate:      "2026-10-31",
		PaymentTerms: "Net 30",
		BillToName:   "PT Maju",
		TaxRate:      "11",
		DiscountRate: "",
		Items:        []RawItem{{Description: "Konsultasi", Quantity: "2", Price: "500000"}},
	}

	inv, err := ExtractInvoice(form)

	require.NoError(t, err)
	assert.Equal(t, PaymentTermsNet30, inv.PaymentTerms)
	assert.True(t, d("11").Equal(inv.TaxRatePercent))
	assert.True(t, inv.DiscountRatePercent.IsZero())
}

func TestExtractInvoice_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		form   InvoiceForm
		field  string
		reason string
	}{
		{"negative tax", InvoiceForm{Date: "2026-10-01", DueDate: "2026-10-02", PaymentTerms: "Cash", BillToName: "A", TaxRate: "-1"}, "tax_rate", "must not be negative"},
		{"bad discount", InvoiceForm{Date: "2026-10-01", DueDate: "2026-10-02", PaymentTerms: "Cash", BillToName: "A", DiscountRate: "ten"}, "discount_rate", "must be a number"},
		{"unknown terms", InvoiceForm{Date: "2026-10-01", DueDate: "2026-10-02", PaymentTerms: "Net 60", BillToName: "A"}, "payment_terms", "must be one of: Net 30, Net 15, Due on Receipt, Cash"},
		{"missing due date", InvoiceForm{Date: "2026-10-01", PaymentTerms: "Cash", BillToName: "A"}, "due_date", "required"},
		{"blank bill to", InvoiceForm{Date: "2026-10-01", DueDate: "2026-10-02", PaymentTerms: "Cash", BillToName: "  "}, "bill_to_name", "required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractInvoice(tt.form)
			var verr *shared.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, map[string]string{tt.field: tt.reason}, verr.Fields)
		})
	}
}

func TestExtractNote(t *testing.T) {
	n, err := ExtractNote(NoteForm{
		Date:    "2026-10-19",
		To:      "Seluruh Staf",
		Subject: "Rapat",
		Message: "Baris satu\nBaris dua\n",
	})

	require.NoError(t, err)
	assert.Equal(t, "Baris satu\nBaris dua\n", n.Message)
	assert.Equal(t, IssuerName, n.Sender())
	assert.Equal(t, "", n.DocumentNumber())
}

func TestExtractNote_MissingMessage(t *testing.T) {
	_, err := ExtractNote(NoteForm{Date: "2026-10-19", To: "A", Subject: "B", Message: "   "})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestExtractNote_KeepsTextAsEntered(t *testing.T) {
	n, err := ExtractNote(NoteForm{
		Number:  " ND-01 ",
		Date:    "2026-10-19",
		To:      "  Seluruh Staf",
		From:    "HRD ",
		Subject: "Rapat",
		Message: "\n  Baris satu",
	})

	require.NoError(t, err)
	assert.Equal(t, " ND-01 ", n.Number)
	assert.Equal(t, "  Seluruh Staf", n.To)
	assert.Equal(t, "HRD ", n.Sender())
	assert.Equal(t, "\n  Baris satu", n.Message)
}

func TestValidateForm_NotAStruct(t *testing.T) {
	assert.Error(t, ValidateForm("form"))
	assert.NotErrorIs(t, ValidateForm("form"), shared.ErrValidation)
}
