// Package spreadsheet writes the line items of priced documents to XLSX.
package spreadsheet

import (
	"context"
	"fmt"
	"time"

	"github.com/generatordok/backend/internal/domain/document"
	"github.com/generatordok/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ContentType of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetName is the name of the only sheet in the workbook
const SheetName = "Rincian"

const (
	amountFormat = "#,##0.###"
	headerRow    = 5
)

var columns = []string{"No", "Deskripsi", "Jumlah", "Harga Satuan", "Total"}

// Ledger renders receipts and invoices as a workbook of items and totals
type Ledger struct {
	logger *zap.Logger
}

// NewLedger creates a Ledger. A nil logger is replaced with a no-op logger.
func NewLedger(logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{logger: logger}
}

// Write returns the XLSX bytes for doc.
// Memos carry no items and are rejected with a validation error.
func (l *Ledger) Write(ctx context.Context, doc document.Document) ([]byte, error) {
	start := time.Now()

	items := document.ItemsOf(doc)
	if items == nil {
		v := shared.NewValidationError()
		v.Add("type", fmt.Sprintf("%s has no line items", doc.Type()))
		return nil, v.Err()
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f}
	w.set(1, 1, doc.Type().Title())
	w.style(1, 1, styles.title)
	w.set(1, 2, "Nomor")
	w.set(2, 2, doc.DocumentNumber())
	w.set(1, 3, "Tanggal")
	w.set(2, 3, document.FormatDate(doc.IssueDate()))

	for i, h := range columns {
		w.set(i+1, headerRow, h)
		w.style(i+1, headerRow, styles.header)
	}

	row := headerRow + 1
	for i, item := range items {
		w.set(1, row, i+1)
		w.set(2, row, item.Description)
		w.amount(3, row, item.Quantity, styles.amount)
		w.amount(4, row, item.UnitPrice, styles.amount)
		w.amount(5, row, item.Total(), styles.amount)
		row++
	}
	row++

	for _, t := range totalRows(doc) {
		w.set(4, row, t.label)
		w.style(4, row, styles.label)
		w.amount(5, row, t.value, styles.amount)
		row++
	}
	if w.err != nil {
		return nil, fmt.Errorf("xlsx cells: %w", w.err)
	}

	_ = f.SetColWidth(SheetName, "A", "A", 8)
	_ = f.SetColWidth(SheetName, "B", "B", 40)
	_ = f.SetColWidth(SheetName, "C", "C", 10)
	_ = f.SetColWidth(SheetName, "D", "E", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	l.logger.Info("xlsx ledger written",
		zap.String("doc_type", doc.Type().String()),
		zap.Int("rows", len(items)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return buf.Bytes(), nil
}

type totalRow struct {
	label string
	value decimal.Decimal
}

// totalRows mirrors the totals block of the composed document
func totalRows(doc document.Document) []totalRow {
	switch d := doc.(type) {
	case *document.ReceiptData:
		return []totalRow{{"Total", d.Totals().Total}}
	case *document.InvoiceData:
		t := d.Totals()
		rows := []totalRow{{"Subtotal", t.Subtotal}}
		if t.ShowDiscount() {
			rows = append(rows,
				totalRow{fmt.Sprintf("Diskon (%s%%)", document.FormatNumber(t.DiscountRatePercent)), t.Discount.Neg()},
				totalRow{"Setelah Diskon", t.AfterDiscount},
			)
		}
		if t.ShowTax() {
			rows = append(rows, totalRow{fmt.Sprintf("Pajak (%s%%)", document.FormatNumber(t.TaxRatePercent)), t.Tax})
		}
		return append(rows, totalRow{"Total", t.Total})
	default:
		return nil
	}
}

type styles struct {
	title, header, label, amount int
}

func newStyles(f *excelize.File) (*styles, error) {
	var s styles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return nil, fmt.Errorf("title style: %w", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E5E7EB"}},
	}); err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, fmt.Errorf("label style: %w", err)
	}
	numFmt := amountFormat
	if s.amount, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt}); err != nil {
		return nil, fmt.Errorf("amount style: %w", err)
	}
	return &s, nil
}

// sheetWriter keeps the first cell error so callers check once
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) set(col, row int, v any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(SheetName, cell, v)
}

// amount writes d as a number; spreadsheets hold float64 cells
func (w *sheetWriter) amount(col, row int, d decimal.Decimal, style int) {
	w.set(col, row, d.InexactFloat64())
	w.style(col, row, style)
}

func (w *sheetWriter) style(col, row, style int) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(SheetName, cell, cell, style)
}
