package document

import (
	"fmt"
	"strings"

	"github.com/generatordok/backend/internal/domain/shared"
)

// DocType identifies one of the three supported business documents
type DocType string

const (
	DocTypeReceipt DocType = "receipt"
	DocTypeInvoice DocType = "invoice"
	DocTypeNote    DocType = "note"
)

// IsValid checks if the DocType is a valid value
func (d DocType) IsValid() bool {
	switch d {
	case DocTypeReceipt, DocTypeInvoice, DocTypeNote:
		return true
	}
	return false
}

// String returns the string representation of DocType
func (d DocType) String() string {
	return string(d)
}

// ExportLabel returns the prefix used for exported file names.
// It is deliberately different from the identifier.
func (d DocType) ExportLabel() string {
	switch d {
	case DocTypeReceipt:
		return "kwitansi"
	case DocTypeInvoice:
		return "faktur"
	case DocTypeNote:
		return "nota"
	default:
		return string(d)
	}
}

// Title returns the heading printed at the top of the document
func (d DocType) Title() string {
	switch d {
	case DocTypeReceipt:
		return "KWITANSI"
	case DocTypeInvoice:
		return "FAKTUR"
	case DocTypeNote:
		return "NOTA DINAS"
	default:
		return strings.ToUpper(string(d))
	}
}

// SurfaceID returns the id of the preview surface the document is composed into
func (d DocType) SurfaceID() string {
	return string(d) + "-preview"
}

// AllDocTypes returns all valid DocType values
func AllDocTypes() []DocType {
	return []DocType{DocTypeReceipt, DocTypeInvoice, DocTypeNote}
}

// ParseDocType parses a document type identifier
func ParseDocType(s string) (DocType, error) {
	d := DocType(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("unknown document type %q", s))
	}
	return d, nil
}

// PaymentTerms is the closed set of invoice payment terms
type PaymentTerms string

const (
	PaymentTermsNet30        PaymentTerms = "Net 30"
	PaymentTermsNet15        PaymentTerms = "Net 15"
	PaymentTermsDueOnReceipt PaymentTerms = "Due on Receipt"
	PaymentTermsCash         PaymentTerms = "Cash"
)

// IsValid checks if the PaymentTerms is a valid value
func (p PaymentTerms) IsValid() bool {
	switch p {
	case PaymentTermsNet30, PaymentTermsNet15, PaymentTermsDueOnReceipt, PaymentTermsCash:
		return true
	}
	return false
}

// String returns the string representation of PaymentTerms
func (p PaymentTerms) String() string {
	return string(p)
}

// DisplayName returns the Indonesian label printed on the invoice
func (p PaymentTerms) DisplayName() string {
	switch p {
	case PaymentTermsNet30:
		return "30 Hari"
	case PaymentTermsNet15:
		return "15 Hari"
	case PaymentTermsDueOnReceipt:
		return "Bayar Saat Diterima"
	case PaymentTermsCash:
		return "Tunai"
	default:
		return string(p)
	}
}

// AllPaymentTerms returns all valid PaymentTerms values
func AllPaymentTerms() []PaymentTerms {
	return []PaymentTerms{PaymentTermsNet30, PaymentTermsNet15, PaymentTermsDueOnReceipt, PaymentTermsCash}
}
