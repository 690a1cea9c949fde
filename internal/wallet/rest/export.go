package rest

import (
	"context"

	"cantina/internal/core"
)

// ExportTransactions calls GET /wallet/export and returns every transaction
// matching the filter, in the order the API serves them. The endpoint is
// unbounded by the on-screen pagination limit.
func (c *Client) ExportTransactions(ctx context.Context, f core.FilterState) ([]core.Transaction, error) {
	return c.export(ctx, "/wallet/export", f)
}

// ExportTransactionsPDF calls GET /wallet/export/pdf, the PDF-scoped
// variant of the export endpoint. It carries the same payload shape.
func (c *Client) ExportTransactionsPDF(ctx context.Context, f core.FilterState) ([]core.Transaction, error) {
	return c.export(ctx, "/wallet/export/pdf", f)
}

func (c *Client) export(ctx context.Context, path string, f core.FilterState) ([]core.Transaction, error) {
	var out exportPayload
	if err := c.get(ctx, path, f.Query(), &out); err != nil {
		return nil, err
	}

	txs := make([]core.Transaction, 0, len(out.Transactions))
	for _, t := range out.Transactions {
		txs = append(txs, t.toCore())
	}
	return txs, nil
}
