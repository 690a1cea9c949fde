package rest

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"cantina/internal/core"
	"cantina/internal/wallet"
)

// DailyStats calls GET /wallet/stats/daily for one ISO week.
func (c *Client) DailyStats(ctx context.Context, year int, month time.Month, week int) (wallet.StatsResult, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	query.Set("month", strconv.Itoa(int(month)))
	query.Set("week", strconv.Itoa(week))

	var out statsPayload
	if err := c.get(ctx, "/wallet/stats/daily", query, &out); err != nil {
		return wallet.StatsResult{}, err
	}
	return out.toResult(out.Days), nil
}

// WeeklyStats calls GET /wallet/stats/weekly for one calendar month.
func (c *Client) WeeklyStats(ctx context.Context, year int, month time.Month) (wallet.StatsResult, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	query.Set("month", strconv.Itoa(int(month)))

	var out statsPayload
	if err := c.get(ctx, "/wallet/stats/weekly", query, &out); err != nil {
		return wallet.StatsResult{}, err
	}
	return out.toResult(out.Weeks), nil
}

// MonthlyStats calls GET /wallet/stats/monthly for one calendar year.
func (c *Client) MonthlyStats(ctx context.Context, year int) (wallet.StatsResult, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))

	var out statsPayload
	if err := c.get(ctx, "/wallet/stats/monthly", query, &out); err != nil {
		return wallet.StatsResult{}, err
	}
	return out.toResult(out.Months), nil
}

// Breakdowns calls GET /wallet/stats with the list filter set. The scope is
// the whole filtered transaction set, not the statistics window.
func (c *Client) Breakdowns(ctx context.Context, f core.FilterState) (wallet.Breakdowns, error) {
	var out breakdownPayload
	if err := c.get(ctx, "/wallet/stats", f.Query(), &out); err != nil {
		return wallet.Breakdowns{}, err
	}

	result := wallet.Breakdowns{
		Categories: make([]core.BreakdownEntry, 0, len(out.CategoryStats)),
		Sources:    make([]core.BreakdownEntry, 0, len(out.SourceStats)),
	}
	for _, e := range out.CategoryStats {
		result.Categories = append(result.Categories, e.toCore())
	}
	for _, e := range out.SourceStats {
		result.Sources = append(result.Sources, e.toCore())
	}
	return result, nil
}
