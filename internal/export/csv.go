// Package export renders the complete filtered transaction set as CSV text
// or as a paginated PDF report. Both exporters fetch everything matching
// the filter, unbounded by the on-screen page size, and render fully in
// memory: a failed fetch or render never yields a partial file.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"cantina/internal/core"
	"cantina/internal/wallet"
)

// Exporter produces downloadable report files from the wallet API.
type Exporter struct {
	txs wallet.TransactionExporter
	now func() time.Time
}

func NewExporter(txs wallet.TransactionExporter, now func() time.Time) *Exporter {
	if now == nil {
		now = time.Now
	}
	return &Exporter{txs: txs, now: now}
}

// CSV exports the filtered set as CSV: one header row plus one row per
// transaction, in the order received from the API. Fields are quoted per
// RFC 4180, so embedded commas survive the round trip.
func (e *Exporter) CSV(ctx context.Context, f core.FilterState) ([]byte, string, error) {
	rows, err := e.txs.ExportTransactions(ctx, f)
	if err != nil {
		return nil, "", fmt.Errorf("fetch transactions for export: %w", err)
	}

	data, err := renderCSV(rows)
	if err != nil {
		return nil, "", fmt.Errorf("render csv: %w", err)
	}
	name := fmt.Sprintf("wallet-transactions-%s.csv", e.now().UTC().Format("2006-01-02"))
	return data, name, nil
}

var csvHeader = []string{"ID", "Date", "Type", "Category", "Source", "Amount", "Description", "Status", "Created By"}

func renderCSV(rows []core.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, tx := range rows {
		record := []string{
			fmt.Sprintf("%d", tx.ID),
			tx.Date.Format("2006-01-02"),
			string(tx.Type),
			tx.Category.Meta().Label,
			tx.Source,
			core.FormatAmount(tx.Amount),
			tx.Description,
			string(tx.Status),
			tx.CreatedBy,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
