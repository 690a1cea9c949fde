package rest

import (
	"time"

	"github.com/shopspring/decimal"

	"cantina/internal/core"
	"cantina/internal/wallet"
)

// Wire payloads for the wallet stats endpoints. Numeric fields are pointers
// so that missing values can be defaulted instead of decoded as zero-or-throw:
// a malformed aggregation response must degrade to zeros, never to an error
// surfaced as a broken chart.
type (
	statsPayload struct {
		Days    []pointPayload  `json:"days"`
		Weeks   []pointPayload  `json:"weeks"`
		Months  []pointPayload  `json:"months"`
		Summary *summaryPayload `json:"summary"`
		Period  string          `json:"period"`
	}

	pointPayload struct {
		PeriodLabel      string           `json:"periodLabel"`
		Income           *decimal.Decimal `json:"income"`
		Expense          *decimal.Decimal `json:"expense"`
		Balance          *decimal.Decimal `json:"balance"`
		TransactionCount int              `json:"transactionCount"`
	}

	summaryPayload struct {
		TotalIncome       *decimal.Decimal `json:"totalIncome"`
		TotalExpense      *decimal.Decimal `json:"totalExpense"`
		TotalTransactions int              `json:"totalTransactions"`
		Balance           *decimal.Decimal `json:"balance"`
	}

	breakdownPayload struct {
		CategoryStats []breakdownEntryPayload `json:"categoryStats"`
		SourceStats   []breakdownEntryPayload `json:"sourceStats"`
	}

	breakdownEntryPayload struct {
		Category         string           `json:"category"`
		Source           string           `json:"source"`
		Amount           *decimal.Decimal `json:"amount"`
		TransactionCount int              `json:"transactionCount"`
	}

	exportPayload struct {
		Transactions []transactionPayload `json:"transactions"`
	}

	transactionPayload struct {
		ID          int64            `json:"id"`
		Date        string           `json:"date"`
		Type        string           `json:"type"`
		Category    string           `json:"category"`
		Source      string           `json:"source"`
		Amount      *decimal.Decimal `json:"amount"`
		Description string           `json:"description"`
		Status      string           `json:"status"`
		CreatedBy   string           `json:"createdBy"`
		CreatedAt   time.Time        `json:"createdAt"`
		UpdatedAt   time.Time        `json:"updatedAt"`
	}
)

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func (p pointPayload) toCore() core.SeriesPoint {
	income := orZero(p.Income)
	expense := orZero(p.Expense)
	balance := income.Sub(expense)
	if p.Balance != nil {
		balance = *p.Balance
	}
	return core.SeriesPoint{
		PeriodLabel:      p.PeriodLabel,
		Income:           income,
		Expense:          expense,
		Balance:          balance,
		TransactionCount: p.TransactionCount,
	}
}

func (p *summaryPayload) toCore() core.Summary {
	if p == nil {
		return core.ZeroSummary()
	}
	income := orZero(p.TotalIncome)
	expense := orZero(p.TotalExpense)
	balance := income.Sub(expense)
	if p.Balance != nil {
		balance = *p.Balance
	}
	return core.Summary{
		TotalIncome:       income,
		TotalExpense:      expense,
		TotalTransactions: p.TotalTransactions,
		Balance:           balance,
	}
}

func (p statsPayload) toResult(points []pointPayload) wallet.StatsResult {
	out := wallet.StatsResult{
		Points:  make([]core.SeriesPoint, 0, len(points)),
		Summary: p.Summary.toCore(),
		Period:  p.Period,
	}
	for _, pt := range points {
		out.Points = append(out.Points, pt.toCore())
	}
	return out
}

func (p breakdownEntryPayload) toCore() core.BreakdownEntry {
	name := p.Category
	if name == "" {
		name = p.Source
	}
	return core.BreakdownEntry{
		Name:             name,
		Amount:           orZero(p.Amount),
		TransactionCount: p.TransactionCount,
	}
}

func (p transactionPayload) toCore() core.Transaction {
	date, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		// Some deployments send full timestamps for the date column.
		date, _ = time.Parse(time.RFC3339, p.Date)
	}
	return core.Transaction{
		ID:          p.ID,
		Date:        date,
		Type:        core.TransactionType(p.Type),
		Category:    core.ParseCategory(p.Category),
		Source:      p.Source,
		Amount:      orZero(p.Amount),
		Description: p.Description,
		Status:      core.TransactionStatus(p.Status),
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
