package document

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	"github.com/generatordok/backend/internal/domain/shared"
)

// DateLayout is the layout of date fields submitted by the forms
const DateLayout = "2006-01-02"

// RawItem is one line-item row exactly as entered in the form
type RawItem struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
}

// ReceiptForm carries the raw receipt field values
type ReceiptForm struct {
	Number          string    `json:"number"`
	Date            string    `json:"date" binding:"required,datetime=2006-01-02"`
	CustomerName    string    `json:"customer_name" binding:"required,notblank"`
	CustomerAddress string    `json:"customer_address"`
	Items           []RawItem `json:"items"`
	Notes           string    `json:"notes"`
}

// InvoiceForm carries the raw invoice field values
type InvoiceForm struct {
	Number        string    `json:"number"`
	Date          string    `json:"date" binding:"required,datetime=2006-01-02"`
	DueDate       string    `json:"due_date" binding:"required,datetime=2006-01-02"`
	PaymentTerms  string    `json:"payment_terms" binding:"required,oneof='Net 30' 'Net 15' 'Due on Receipt' Cash"`
	BillToName    string    `json:"bill_to_name" binding:"required,notblank"`
	BillToAddress string    `json:"bill_to_address"`
	Items         []RawItem `json:"items"`
	TaxRate       string    `json:"tax_rate" binding:"omitempty,numeric,excludes=-"`
	DiscountRate  string    `json:"discount_rate" binding:"omitempty,numeric,excludes=-"`
	Notes         string    `json:"notes"`
}

// NoteForm carries the raw memo field values
type NoteForm struct {
	Number  string `json:"number"`
	Date    string `json:"date" binding:"required,datetime=2006-01-02"`
	To      string `json:"to" binding:"required,notblank"`
	From    string `json:"from"`
	Subject string `json:"subject" binding:"required,notblank"`
	Message string `json:"message" binding:"required,notblank"`
}

// RegisterValidations adds the form tags that validator does not know by
// default. Every validator that checks the forms needs them.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("notblank", validators.NotBlank)
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

// ValidateForm checks the binding tags of a form. Failures come back as a
// *shared.ValidationError keyed by JSON field name.
func ValidateForm(form any) error {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}
	if verr := shared.ValidationErrorFrom(err, nil); verr != nil {
		return verr
	}
	return err
}

// ParseAmount reads a numeric field. Blank or malformed input counts as zero.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FilterItems converts raw rows to line items, keeping a row only when it has
// a description, a positive quantity and a positive price. Descriptions are
// kept as entered. Order is preserved.
func FilterItems(rows []RawItem) []LineItem {
	items := make([]LineItem, 0, len(rows))
	for _, row := range rows {
		qty := ParseAmount(row.Quantity)
		price := ParseAmount(row.Price)
		if strings.TrimSpace(row.Description) == "" || !qty.IsPositive() || !price.IsPositive() {
			continue
		}
		items = append(items, LineItem{Description: row.Description, Quantity: qty, UnitPrice: price})
	}
	return items
}

// ExtractReceipt converts a receipt form into a ReceiptData record
func ExtractReceipt(form ReceiptForm) (*ReceiptData, error) {
	if err := ValidateForm(form); err != nil {
		return nil, err
	}
	return &ReceiptData{
		Number:          form.Number,
		Date:            parseDate(form.Date),
		CustomerName:    form.CustomerName,
		CustomerAddress: form.CustomerAddress,
		Items:           FilterItems(form.Items),
		Notes:           form.Notes,
	}, nil
}

// ExtractInvoice converts an invoice form into an InvoiceData record
func ExtractInvoice(form InvoiceForm) (*InvoiceData, error) {
	if err := ValidateForm(form); err != nil {
		return nil, err
	}
	return &InvoiceData{
		Number:              form.Number,
		Date:                parseDate(form.Date),
		DueDate:             parseDate(form.DueDate),
		PaymentTerms:        PaymentTerms(form.PaymentTerms),
		BillToName:          form.BillToName,
		BillToAddress:       form.BillToAddress,
		Items:               FilterItems(form.Items),
		TaxRatePercent:      ParseAmount(form.TaxRate),
		DiscountRatePercent: ParseAmount(form.DiscountRate),
		Notes:               form.Notes,
	}, nil
}

// ExtractNote converts a memo form into a NoteData record
func ExtractNote(form NoteForm) (*NoteData, error) {
	if err := ValidateForm(form); err != nil {
		return nil, err
	}
	return &NoteData{
		Number:  form.Number,
		Date:    parseDate(form.Date),
		To:      form.To,
		From:    form.From,
		Subject: form.Subject,
		Message: form.Message,
	}, nil
}

// parseDate reads a date the datetime tag has already accepted
func parseDate(value string) time.Time {
	t, _ := time.Parse(DateLayout, value)
	return t
}
