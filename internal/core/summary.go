package core

import "github.com/shopspring/decimal"

// SeriesPoint is one aggregated sub-period inside a window: a day within a
// week, an ISO week within a month, or a month within a year.
type SeriesPoint struct {
	PeriodLabel      string          `json:"periodLabel"`
	Income           decimal.Decimal `json:"income"`
	Expense          decimal.Decimal `json:"expense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transactionCount,omitempty"`
}

// Summary holds window totals. Balance is always income minus expense.
type Summary struct {
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpense      decimal.Decimal `json:"totalExpense"`
	TotalTransactions int             `json:"totalTransactions"`
	Balance           decimal.Decimal `json:"balance"`
}

// ZeroSummary is the explicit empty-window summary: all totals zero.
func ZeroSummary() Summary {
	return Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Balance:      decimal.Zero,
	}
}

// Consistent reports whether the summary satisfies its balance invariant
// within two-decimal currency rounding.
func (s Summary) Consistent() bool {
	diff := s.Balance.Sub(s.TotalIncome.Sub(s.TotalExpense)).Abs()
	return diff.LessThanOrEqual(decimal.New(1, -2))
}

// BreakdownEntry is one row of a category or source grouping, with the
// total amount used for relative-bar rendering.
type BreakdownEntry struct {
	Name             string          `json:"name"`
	Amount           decimal.Decimal `json:"amount"`
	TransactionCount int             `json:"transactionCount"`
}
