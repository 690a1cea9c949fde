package wallet

import (
	"context"
	"time"

	"cantina/internal/core"
)

// StatsResult is a pre-aggregated series for one window plus its totals,
// as returned by the wallet stats endpoints.
type StatsResult struct {
	Points  []core.SeriesPoint
	Summary core.Summary
	Period  string
}

// Breakdowns groups the whole filtered transaction set by category and by
// source. Breakdowns are filter-scoped, not window-scoped.
type Breakdowns struct {
	Categories []core.BreakdownEntry
	Sources    []core.BreakdownEntry
}

// Ports for the outbound wallet API adapters.
type (
	// StatsReader provides pre-aggregated income/expense/balance series.
	StatsReader interface {
		// DailyStats returns one point per day of the requested ISO week.
		DailyStats(ctx context.Context, year int, month time.Month, week int) (StatsResult, error)
		// WeeklyStats returns one point per ISO week of the month,
		// including partial weeks at the month's edges.
		WeeklyStats(ctx context.Context, year int, month time.Month) (StatsResult, error)
		// MonthlyStats returns one point per calendar month of the year.
		MonthlyStats(ctx context.Context, year int) (StatsResult, error)
		// Breakdowns returns category and source groupings for the
		// current filter set.
		Breakdowns(ctx context.Context, f core.FilterState) (Breakdowns, error)
	}

	// TransactionExporter returns the complete filtered transaction set,
	// unbounded by the on-screen pagination limit. The API exposes a
	// separate endpoint per export format, hence the two calls.
	TransactionExporter interface {
		// ExportTransactions feeds the CSV flow.
		ExportTransactions(ctx context.Context, f core.FilterState) ([]core.Transaction, error)
		// ExportTransactionsPDF feeds the PDF flow.
		ExportTransactionsPDF(ctx context.Context, f core.FilterState) ([]core.Transaction, error)
	}
)

// SeriesForWindow fetches the series matching a computed window, picking
// the stats endpoint for the window's granularity.
func SeriesForWindow(ctx context.Context, r StatsReader, w core.AggregationWindow) (StatsResult, error) {
	switch w.Granularity {
	case core.Daily:
		return r.DailyStats(ctx, w.Year, w.Month, w.WeekNumber)
	case core.Weekly:
		return r.WeeklyStats(ctx, w.Year, w.Month)
	case core.Monthly:
		return r.MonthlyStats(ctx, w.Year)
	default:
		return StatsResult{}, core.ErrInvalidGranularity
	}
}
