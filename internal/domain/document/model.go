package document

import (
	"time"

	"github.com/shopspring/decimal"
)

// IssuerName is printed as the sender when a memo leaves "from" blank
const IssuerName = "GeneratorDok"

// LineItem is a single priced row on a receipt or invoice
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Total returns quantity times unit price
func (i LineItem) Total() decimal.Decimal {
	return LineTotal(i.Quantity, i.UnitPrice)
}

// Document is the common view over the typed document records
type Document interface {
	Type() DocType
	DocumentNumber() string
	IssueDate() time.Time
}

// ReceiptData is the typed payment receipt record
type ReceiptData struct {
	Number          string     `json:"number"`
	Date            time.Time  `json:"date"`
	CustomerName    string     `json:"customer_name"`
	CustomerAddress string     `json:"customer_address,omitempty"`
	Items           []LineItem `json:"items"`
	Notes           string     `json:"notes,omitempty"`
}

func (r *ReceiptData) Type() DocType          { return DocTypeReceipt }
func (r *ReceiptData) DocumentNumber() string { return r.Number }
func (r *ReceiptData) IssueDate() time.Time   { return r.Date }

// Totals computes the receipt total
func (r *ReceiptData) Totals() ReceiptTotals {
	return ComputeReceiptTotals(r.Items)
}

// InvoiceData is the typed invoice record
type InvoiceData struct {
	Number              string          `json:"number"`
	Date                time.Time       `json:"date"`
	DueDate             time.Time       `json:"due_date"`
	PaymentTerms        PaymentTerms    `json:"payment_terms"`
	BillToName          string          `json:"bill_to_name"`
	BillToAddress       string          `json:"bill_to_address,omitempty"`
	Items               []LineItem      `json:"items"`
	TaxRatePercent      decimal.Decimal `json:"tax_rate_percent"`
	DiscountRatePercent decimal.Decimal `json:"discount_rate_percent"`
	Notes               string          `json:"notes,omitempty"`
}

func (i *InvoiceData) Type() DocType          { return DocTypeInvoice }
func (i *InvoiceData) DocumentNumber() string { return i.Number }
func (i *InvoiceData) IssueDate() time.Time   { return i.Date }

// Totals computes subtotal, discount, tax and grand total
func (i *InvoiceData) Totals() InvoiceTotals {
	return ComputeInvoiceTotals(i.Items, i.DiscountRatePercent, i.TaxRatePercent)
}

// NoteData is the typed internal memo record
type NoteData struct {
	Number  string    `json:"number"`
	Date    time.Time `json:"date"`
	To      string    `json:"to"`
	From    string    `json:"from,omitempty"`
	Subject string    `json:"subject"`
	Message string    `json:"message"`
}

func (n *NoteData) Type() DocType          { return DocTypeNote }
func (n *NoteData) DocumentNumber() string { return n.Number }
func (n *NoteData) IssueDate() time.Time   { return n.Date }

// Sender returns the memo sender, falling back to the issuer
func (n *NoteData) Sender() string {
	if n.From == "" {
		return IssuerName
	}
	return n.From
}

// ItemsOf returns the line items of a document, or nil for memos
func ItemsOf(doc Document) []LineItem {
	switch d := doc.(type) {
	case *ReceiptData:
		return d.Items
	case *InvoiceData:
		return d.Items
	default:
		return nil
	}
}
