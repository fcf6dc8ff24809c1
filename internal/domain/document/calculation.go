package document

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ReceiptTotals holds the single figure a receipt prints
type ReceiptTotals struct {
	Total decimal.Decimal
}

// InvoiceTotals holds every figure of the invoice totals block.
// Tax is levied on the discounted amount, never on the raw subtotal.
type InvoiceTotals struct {
	Subtotal            decimal.Decimal
	DiscountRatePercent decimal.Decimal
	Discount            decimal.Decimal
	AfterDiscount       decimal.Decimal
	TaxRatePercent      decimal.Decimal
	Tax                 decimal.Decimal
	Total               decimal.Decimal
}

// ShowDiscount reports whether the discount row is rendered
func (t InvoiceTotals) ShowDiscount() bool {
	return t.DiscountRatePercent.IsPositive()
}

// ShowTax reports whether the tax row is rendered
func (t InvoiceTotals) ShowTax() bool {
	return t.TaxRatePercent.IsPositive()
}

// LineTotal returns quantity × unit price
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// Sum returns the sum of all line totals
func Sum(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Total())
	}
	return total
}

// ComputeReceiptTotals sums the receipt items
func ComputeReceiptTotals(items []LineItem) ReceiptTotals {
	return ReceiptTotals{Total: Sum(items)}
}

// ComputeInvoiceTotals applies discount first, then tax on the discounted amount.
func ComputeInvoiceTotals(items []LineItem, discountRatePercent, taxRatePercent decimal.Decimal) InvoiceTotals {
	subtotal := Sum(items)
	discount := subtotal.Mul(discountRatePercent).Div(hundred)
	after := subtotal.Sub(discount)
	tax := after.Mul(taxRatePercent).Div(hundred)
	return InvoiceTotals{
		Subtotal:            subtotal,
		DiscountRatePercent: discountRatePercent,
		Discount:            discount,
		AfterDiscount:       after,
		TaxRatePercent:      taxRatePercent,
		Tax:                 tax,
		Total:               after.Add(tax),
	}
}
