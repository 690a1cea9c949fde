package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cantina/internal/core"
	"cantina/internal/wallet"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dailyWindow() core.AggregationWindow {
	return core.ComputeWindow(core.NewCursor(core.Daily, time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)))
}

func point(income, expense string) core.SeriesPoint {
	i, e := dec(income), dec(expense)
	return core.SeriesPoint{Income: i, Expense: e, Balance: i.Sub(e)}
}

func TestAssembleReport_DailyLabels(t *testing.T) {
	res := wallet.StatsResult{
		Points: []core.SeriesPoint{
			point("10.00", "2.00"), point("0", "0"), point("5.50", "1.20"),
			point("0", "0"), point("0", "0"), point("0", "0"), point("0", "0"),
		},
		Summary: core.Summary{
			TotalIncome:  dec("15.50"),
			TotalExpense: dec("3.20"),
			Balance:      dec("12.30"),
		},
	}
	report := AssembleReport(dailyWindow(), res)

	wantLabels := []string{"Mon 08", "Tue 09", "Wed 10", "Thu 11", "Fri 12", "Sat 13", "Sun 14"}
	if len(report.Points) != len(wantLabels) {
		t.Fatalf("points = %d, want %d", len(report.Points), len(wantLabels))
	}
	for i, want := range wantLabels {
		if report.Points[i].Label != want {
			t.Errorf("point %d label = %q, want %q", i, report.Points[i].Label, want)
		}
	}
	if report.SeriesMismatch {
		t.Error("consistent series flagged as mismatch")
	}
}

func TestAssembleReport_WeeklyAndMonthlyLabels(t *testing.T) {
	weekly := core.ComputeWindow(core.NewCursor(core.Weekly, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
	res := wallet.StatsResult{Points: []core.SeriesPoint{point("0", "0"), point("0", "0"), point("0", "0")}}
	report := AssembleReport(weekly, res)
	for i, want := range []string{"Week 1", "Week 2", "Week 3"} {
		if report.Points[i].Label != want {
			t.Errorf("weekly point %d label = %q, want %q", i, report.Points[i].Label, want)
		}
	}

	monthly := core.ComputeWindow(core.NewCursor(core.Monthly, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)))
	points := make([]core.SeriesPoint, 12)
	for i := range points {
		points[i] = point("0", "0")
	}
	report = AssembleReport(monthly, wallet.StatsResult{Points: points})
	if report.Points[0].Label != "Jan" || report.Points[11].Label != "Dec" {
		t.Errorf("monthly labels = %q..%q, want Jan..Dec", report.Points[0].Label, report.Points[11].Label)
	}
}

func TestAssembleReport_FlagsSeriesMismatch(t *testing.T) {
	res := wallet.StatsResult{
		Points: []core.SeriesPoint{point("10.00", "0")},
		Summary: core.Summary{
			TotalIncome:  dec("99.00"), // disagrees with the series
			TotalExpense: decimal.Zero,
			Balance:      dec("99.00"),
		},
	}
	report := AssembleReport(dailyWindow(), res)
	if !report.SeriesMismatch {
		t.Error("series/summary disagreement not surfaced")
	}
}

func TestZeroReport_RendersWithoutData(t *testing.T) {
	report := ZeroReport(dailyWindow())

	if report.Points == nil || len(report.Points) != 0 {
		t.Errorf("zero report points = %v, want empty non-nil slice", report.Points)
	}
	if !report.Summary.TotalIncome.IsZero() || !report.Summary.Balance.IsZero() {
		t.Errorf("zero report summary = %+v, want all-zero", report.Summary)
	}
	if report.SeriesMismatch {
		t.Error("zero report must not be flagged")
	}
	if report.Window.Label == "" {
		t.Error("zero report loses its window heading")
	}
}

func TestRelativeWidths(t *testing.T) {
	entries := []core.BreakdownEntry{
		{Name: "MEALS", Amount: dec("50.00")},
		{Name: "SNACKS", Amount: dec("25.00")},
		{Name: "BEVERAGES", Amount: dec("0")},
	}
	widths := RelativeWidths(entries)

	if widths[0] != 1.0 {
		t.Errorf("max entry width = %v, want 1", widths[0])
	}
	if widths[1] != 0.5 {
		t.Errorf("half entry width = %v, want 0.5", widths[1])
	}
	if widths[2] != 0 {
		t.Errorf("zero entry width = %v, want 0", widths[2])
	}
}

func TestRelativeWidths_AllZeroAmounts(t *testing.T) {
	entries := []core.BreakdownEntry{
		{Name: "MEALS", Amount: decimal.Zero},
		{Name: "SNACKS", Amount: decimal.Zero},
	}
	for i, w := range RelativeWidths(entries) {
		if w != 0 {
			t.Errorf("entry %d width = %v, want 0 (no NaN/Inf)", i, w)
		}
	}
}

func TestAssembleBreakdowns_CategoryMetadata(t *testing.T) {
	b := wallet.Breakdowns{
		Categories: []core.BreakdownEntry{
			{Name: "MEALS", Amount: dec("30.00"), TransactionCount: 4},
			{Name: "mystery", Amount: dec("10.00"), TransactionCount: 1},
		},
		Sources: []core.BreakdownEntry{
			{Name: "vending", Amount: dec("12.00"), TransactionCount: 6},
		},
	}
	report := AssembleBreakdowns(b)

	if report.Categories[0].Label != "Meals" || report.Categories[0].Icon == "" {
		t.Errorf("category view = %+v, want Meals metadata", report.Categories[0])
	}
	if report.Categories[1].Label != "Other" {
		t.Errorf("unknown category label = %q, want Other", report.Categories[1].Label)
	}
	if report.Sources[0].Label != "vending" || report.Sources[0].Icon != "" {
		t.Errorf("source view = %+v, want raw name and no icon", report.Sources[0])
	}
	if report.Categories[0].RelativeWidth != 1.0 {
		t.Errorf("top category width = %v, want 1", report.Categories[0].RelativeWidth)
	}
}
