// Package services orchestrates the statistics view: cursor navigation,
// aggregation fetching and report assembly over the wallet ports.
package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"cantina/internal/core"
	"cantina/internal/wallet"
)

type (
	// Report is the presentation-ready result for one granularity tab:
	// chart series, summary cards and the window heading.
	Report struct {
		Granularity core.Granularity `json:"granularity"`
		Window      WindowView       `json:"window"`
		Points      []ChartPoint     `json:"points"`
		Summary     core.Summary     `json:"summary"`

		// SeriesMismatch is set when the series totals disagree with the
		// summary beyond currency rounding. The assembler never recomputes
		// the report from it; a mismatch points at a boundary bug upstream.
		SeriesMismatch bool `json:"seriesMismatch,omitempty"`
	}

	// WindowView is the serializable shape of an aggregation window.
	WindowView struct {
		Start      string `json:"start"`
		End        string `json:"end"`
		Label      string `json:"label"`
		Year       int    `json:"year"`
		Month      int    `json:"month,omitempty"`
		WeekNumber int    `json:"weekNumber,omitempty"`
	}

	// ChartPoint is one rendered bar or line point.
	ChartPoint struct {
		Label            string          `json:"label"`
		Income           decimal.Decimal `json:"income"`
		Expense          decimal.Decimal `json:"expense"`
		Balance          decimal.Decimal `json:"balance"`
		TransactionCount int             `json:"transactionCount,omitempty"`
	}

	// BreakdownView is one category or source bar with its relative width.
	BreakdownView struct {
		Name             string          `json:"name"`
		Label            string          `json:"label"`
		Icon             string          `json:"icon,omitempty"`
		Amount           decimal.Decimal `json:"amount"`
		TransactionCount int             `json:"transactionCount"`
		RelativeWidth    float64         `json:"relativeWidth"`
	}

	// BreakdownReport carries both filter-scoped groupings.
	BreakdownReport struct {
		Categories []BreakdownView `json:"categories"`
		Sources    []BreakdownView `json:"sources"`
	}
)

// AssembleReport reshapes a fetched series into a chart-ready report for
// the window it was requested with.
func AssembleReport(w core.AggregationWindow, res wallet.StatsResult) Report {
	points := make([]ChartPoint, 0, len(res.Points))
	for i, p := range res.Points {
		points = append(points, ChartPoint{
			Label:            pointLabel(w, i, p.PeriodLabel),
			Income:           p.Income,
			Expense:          p.Expense,
			Balance:          p.Balance,
			TransactionCount: p.TransactionCount,
		})
	}
	return Report{
		Granularity:    w.Granularity,
		Window:         viewOf(w),
		Points:         points,
		Summary:        res.Summary,
		SeriesMismatch: !seriesMatchesSummary(res.Points, res.Summary),
	}
}

// ZeroReport is the explicit no-data state for a window: empty series and
// an all-zero summary. Rendering it must never be treated as an error.
func ZeroReport(w core.AggregationWindow) Report {
	return Report{
		Granularity: w.Granularity,
		Window:      viewOf(w),
		Points:      []ChartPoint{},
		Summary:     core.ZeroSummary(),
	}
}

// AssembleBreakdowns attaches display metadata and relative bar widths to
// the raw category/source groupings.
func AssembleBreakdowns(b wallet.Breakdowns) BreakdownReport {
	return BreakdownReport{
		Categories: breakdownViews(b.Categories, true),
		Sources:    breakdownViews(b.Sources, false),
	}
}

// RelativeWidths computes amount/max for each entry, clamped to [0, 1].
// A max of zero yields zero for every entry rather than a division error.
func RelativeWidths(entries []core.BreakdownEntry) []float64 {
	max := decimal.Zero
	for _, e := range entries {
		if e.Amount.GreaterThan(max) {
			max = e.Amount
		}
	}

	widths := make([]float64, len(entries))
	if max.IsZero() {
		return widths
	}
	for i, e := range entries {
		w, _ := e.Amount.Div(max).Float64()
		if w < 0 {
			w = 0
		}
		if w > 1 {
			w = 1
		}
		widths[i] = w
	}
	return widths
}

func breakdownViews(entries []core.BreakdownEntry, categories bool) []BreakdownView {
	widths := RelativeWidths(entries)
	out := make([]BreakdownView, 0, len(entries))
	for i, e := range entries {
		v := BreakdownView{
			Name:             e.Name,
			Label:            e.Name,
			Amount:           e.Amount,
			TransactionCount: e.TransactionCount,
			RelativeWidth:    widths[i],
		}
		if categories {
			meta := core.ParseCategory(e.Name).Meta()
			v.Label = meta.Label
			v.Icon = meta.Icon
		}
		out = append(out, v)
	}
	return out
}

// pointLabel renders the per-point label for the granularity: "Mon 05" for
// days, "Week 2" for weeks, "Jan" for months. Points past the window's
// expected sub-period count keep the label the API sent.
func pointLabel(w core.AggregationWindow, idx int, apiLabel string) string {
	switch w.Granularity {
	case core.Daily:
		if idx < 7 {
			return w.Start.AddDate(0, 0, idx).Format("Mon 02")
		}
	case core.Weekly:
		return fmt.Sprintf("Week %d", idx+1)
	case core.Monthly:
		if idx < 12 {
			return time.Month(idx + 1).String()[:3]
		}
	}
	return apiLabel
}

func seriesMatchesSummary(points []core.SeriesPoint, s core.Summary) bool {
	income := decimal.Zero
	expense := decimal.Zero
	for _, p := range points {
		income = income.Add(p.Income)
		expense = expense.Add(p.Expense)
	}
	// Empty series with a non-zero summary is the paginated-list case, not
	// a mismatch; only a populated series must reconcile.
	if len(points) == 0 {
		return true
	}
	tolerance := decimal.New(1, -2)
	return income.Sub(s.TotalIncome).Abs().LessThanOrEqual(tolerance) &&
		expense.Sub(s.TotalExpense).Abs().LessThanOrEqual(tolerance)
}

func viewOf(w core.AggregationWindow) WindowView {
	v := WindowView{
		Start: w.Start.Format("2006-01-02"),
		End:   w.End.Format("2006-01-02"),
		Label: w.Label(),
		Year:  w.Year,
	}
	if w.Month != 0 {
		v.Month = int(w.Month)
	}
	v.WeekNumber = w.WeekNumber
	return v
}
