// Package memory is an in-process wallet backend. It serves the same
// aggregates as the wallet API from a fixed transaction set, for local
// development and tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"cantina/internal/core"
	"cantina/internal/wallet"
)

type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

func New(items []core.Transaction) *Store {
	return &Store{items: append([]core.Transaction(nil), items...)}
}

// NewSeeded builds a store with a small sample week of cafeteria traffic
// around now, so the statistics view has something to show out of the box.
func NewSeeded(now time.Time) *Store {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	mk := func(id int64, offset int, ty core.TransactionType, cat core.Category, src, desc string, amount string) core.Transaction {
		a, _ := decimal.NewFromString(amount)
		return core.Transaction{
			ID:          id,
			Date:        day.AddDate(0, 0, offset),
			Type:        ty,
			Category:    cat,
			Source:      src,
			Amount:      a,
			Description: desc,
			Status:      core.StatusConfirmed,
			CreatedBy:   "seed",
			CreatedAt:   day,
			UpdatedAt:   day,
		}
	}
	return New([]core.Transaction{
		mk(1, -6, core.Income, core.CategoryTopUp, "counter", "wallet top up", "50.00"),
		mk(2, -5, core.Expense, core.CategoryMeals, "kitchen", "lunch menu", "7.50"),
		mk(3, -4, core.Expense, core.CategoryBeverages, "vending", "coffee", "1.20"),
		mk(4, -3, core.Expense, core.CategorySnacks, "kiosk", "sandwich, extra cheese", "4.80"),
		mk(5, -2, core.Income, core.CategoryRefund, "counter", "cancelled order refund", "7.50"),
		mk(6, -1, core.Expense, core.CategoryMeals, "kitchen", "dinner menu", "9.00"),
		mk(7, 0, core.Expense, core.CategoryBeverages, "vending", "juice", "2.10"),
	})
}

// DailyStats aggregates one point per day of the requested ISO week.
func (s *Store) DailyStats(_ context.Context, year int, _ time.Month, week int) (wallet.StatsResult, error) {
	start := core.ISOWeekStart(year, week)

	points := make([]core.SeriesPoint, 0, 7)
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		points = append(points, s.aggregate(d, d, d.Format("2006-01-02")))
	}
	return resultFromPoints(points), nil
}

// WeeklyStats aggregates one point per ISO week slice of the month,
// including partial weeks at the month's edges.
func (s *Store) WeeklyStats(_ context.Context, year int, month time.Month) (wallet.StatsResult, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	var points []core.SeriesPoint
	for cur, n := first, 1; !cur.After(last); n++ {
		end := sundayOf(cur)
		if end.After(last) {
			end = last
		}
		points = append(points, s.aggregate(cur, end, weekLabel(n)))
		cur = end.AddDate(0, 0, 1)
	}
	return resultFromPoints(points), nil
}

// MonthlyStats aggregates one point per calendar month of the year.
func (s *Store) MonthlyStats(_ context.Context, year int) (wallet.StatsResult, error) {
	points := make([]core.SeriesPoint, 0, 12)
	for m := time.January; m <= time.December; m++ {
		first := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
		points = append(points, s.aggregate(first, first.AddDate(0, 1, -1), first.Format("2006-01")))
	}
	return resultFromPoints(points), nil
}

// Breakdowns groups the filtered set by category and by source.
func (s *Store) Breakdowns(_ context.Context, f core.FilterState) (wallet.Breakdowns, error) {
	byCategory := map[string]*core.BreakdownEntry{}
	bySource := map[string]*core.BreakdownEntry{}
	for _, tx := range s.filtered(f) {
		addEntry(byCategory, string(tx.Category), tx.Amount)
		addEntry(bySource, tx.Source, tx.Amount)
	}
	return wallet.Breakdowns{
		Categories: sortedEntries(byCategory),
		Sources:    sortedEntries(bySource),
	}, nil
}

// ExportTransactions returns the complete filtered set.
func (s *Store) ExportTransactions(_ context.Context, f core.FilterState) ([]core.Transaction, error) {
	return s.filtered(f), nil
}

// ExportTransactionsPDF serves the PDF flow from the same dataset; the
// store has no format-specific view to offer.
func (s *Store) ExportTransactionsPDF(ctx context.Context, f core.FilterState) ([]core.Transaction, error) {
	return s.ExportTransactions(ctx, f)
}

func (s *Store) aggregate(start, end time.Time, label string) core.SeriesPoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := core.SeriesPoint{
		PeriodLabel: label,
		Income:      decimal.Zero,
		Expense:     decimal.Zero,
		Balance:     decimal.Zero,
	}
	for _, tx := range s.items {
		d := tx.Date
		if d.Before(start) || d.After(end.AddDate(0, 0, 1).Add(-time.Nanosecond)) {
			continue
		}
		switch tx.Type {
		case core.Income:
			p.Income = p.Income.Add(tx.Amount)
		case core.Expense:
			p.Expense = p.Expense.Add(tx.Amount)
		}
		p.TransactionCount++
	}
	p.Balance = p.Income.Sub(p.Expense)
	return p
}

func (s *Store) filtered(f core.FilterState) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Transaction, 0, len(s.items))
	for _, tx := range s.items {
		if !matches(tx, f) {
			continue
		}
		out = append(out, tx)
	}
	sortTransactions(out, f)
	return out
}

func matches(tx core.Transaction, f core.FilterState) bool {
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.Category != "" && tx.Category != f.Category {
		return false
	}
	if f.Status != "" && tx.Status != f.Status {
		return false
	}
	if f.Source != "" && !strings.EqualFold(tx.Source, f.Source) {
		return false
	}
	if !f.DateFrom.IsZero() && tx.Date.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && tx.Date.After(f.DateTo) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(tx.Description), q) &&
			!strings.Contains(strings.ToLower(tx.Source), q) {
			return false
		}
	}
	return true
}

func sortTransactions(txs []core.Transaction, f core.FilterState) {
	desc := strings.EqualFold(f.SortDir, "desc")
	sort.SliceStable(txs, func(i, j int) bool {
		var less bool
		switch f.SortBy {
		case "amount":
			less = txs[i].Amount.LessThan(txs[j].Amount)
		default:
			less = txs[i].Date.Before(txs[j].Date)
		}
		if desc {
			return !less
		}
		return less
	})
}

func resultFromPoints(points []core.SeriesPoint) wallet.StatsResult {
	summary := core.ZeroSummary()
	for _, p := range points {
		summary.TotalIncome = summary.TotalIncome.Add(p.Income)
		summary.TotalExpense = summary.TotalExpense.Add(p.Expense)
		summary.TotalTransactions += p.TransactionCount
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return wallet.StatsResult{Points: points, Summary: summary}
}

func addEntry(m map[string]*core.BreakdownEntry, name string, amount decimal.Decimal) {
	e, ok := m[name]
	if !ok {
		e = &core.BreakdownEntry{Name: name, Amount: decimal.Zero}
		m[name] = e
	}
	e.Amount = e.Amount.Add(amount)
	e.TransactionCount++
}

func sortedEntries(m map[string]*core.BreakdownEntry) []core.BreakdownEntry {
	out := make([]core.BreakdownEntry, 0, len(m))
	for _, e := range m {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Equal(out[j].Amount) {
			return out[i].Name < out[j].Name
		}
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

func sundayOf(d time.Time) time.Time {
	offset := (7 - int(d.Weekday())) % 7 // Sunday=0 -> 0, Monday=1 -> 6
	return d.AddDate(0, 0, offset)
}

func weekLabel(n int) string {
	return "W" + strconv.Itoa(n)
}
