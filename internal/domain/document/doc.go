// Package document holds the business documents the generator produces:
// receipts (kwitansi), invoices (faktur) and internal memos (nota dinas).
//
// It converts raw form values into typed records, filters line items and
// computes totals. Everything here is pure; rendering lives in the printing
// infrastructure.
package document
