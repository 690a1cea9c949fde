package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"cantina/internal/core"
	"cantina/internal/log"
	"cantina/internal/wallet"
)

// StatsView owns the state of the statistics screen: one independent slot
// per granularity, each with its own cursor, latest report and error.
//
// Fetches for different granularities may be in flight concurrently and
// complete in any order; each one writes only to its own slot. Within a
// slot, every fetch is fenced by a request token: a response is dropped
// unless its token is still the slot's latest, so a slow response to an
// earlier cursor position can never overwrite a newer one.
type StatsView struct {
	stats wallet.StatsReader
	now   func() time.Time

	mu     sync.Mutex
	filter core.FilterState
	slots  map[core.Granularity]*slot
}

type slot struct {
	cursor core.PeriodCursor
	report *Report
	errMsg string
	token  uuid.UUID
}

// GranularityState is the renderable state of one tab: either a report or
// a user-visible error with no data.
type GranularityState struct {
	Granularity core.Granularity `json:"granularity"`
	Report      *Report          `json:"report,omitempty"`
	Error       string           `json:"error,omitempty"`
}

func NewStatsView(stats wallet.StatsReader, now func() time.Time) *StatsView {
	if now == nil {
		now = time.Now
	}
	v := &StatsView{stats: stats, now: now}
	v.resetSlots()
	return v
}

// Reset discards all cursors and reports, returning every tab to its
// current-period default. This is the view-unmount lifecycle.
func (v *StatsView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resetSlots()
}

func (v *StatsView) resetSlots() {
	v.slots = make(map[core.Granularity]*slot, 3)
	for _, g := range core.Granularities() {
		v.slots[g] = &slot{cursor: core.CurrentCursor(g, v.now())}
	}
}

// Cursor returns the current cursor of one granularity.
func (v *StatsView) Cursor(g core.Granularity) (core.PeriodCursor, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.slots[g]
	if !ok {
		return core.PeriodCursor{}, core.ErrInvalidGranularity
	}
	return s.cursor, nil
}

// State returns the renderable state of one tab, fetching on first use.
func (v *StatsView) State(ctx context.Context, g core.Granularity) (GranularityState, error) {
	v.mu.Lock()
	s, ok := v.slots[g]
	if !ok {
		v.mu.Unlock()
		return GranularityState{}, core.ErrInvalidGranularity
	}
	fetched := s.report != nil || s.errMsg != ""
	v.mu.Unlock()

	if !fetched {
		v.Refresh(ctx, g)
	}
	return v.snapshot(g), nil
}

// Next advances the granularity's cursor one whole unit forward and
// refetches its window.
func (v *StatsView) Next(ctx context.Context, g core.Granularity) (GranularityState, error) {
	return v.navigate(ctx, g, func(c core.PeriodCursor) core.PeriodCursor { return c.Next() })
}

// Prev moves the granularity's cursor one whole unit back and refetches.
func (v *StatsView) Prev(ctx context.Context, g core.Granularity) (GranularityState, error) {
	return v.navigate(ctx, g, func(c core.PeriodCursor) core.PeriodCursor { return c.Prev() })
}

func (v *StatsView) navigate(ctx context.Context, g core.Granularity, move func(core.PeriodCursor) core.PeriodCursor) (GranularityState, error) {
	v.mu.Lock()
	s, ok := v.slots[g]
	if !ok {
		v.mu.Unlock()
		return GranularityState{}, core.ErrInvalidGranularity
	}
	s.cursor = move(s.cursor)
	v.mu.Unlock()

	v.Refresh(ctx, g)
	return v.snapshot(g), nil
}

// Refresh fetches the series for the granularity's current window and
// replaces the slot's state whole. On failure the slot is cleared to an
// explicit no-data state with a user-visible error; other slots are
// untouched and the failure is not retried.
func (v *StatsView) Refresh(ctx context.Context, g core.Granularity) error {
	v.mu.Lock()
	s, ok := v.slots[g]
	if !ok {
		v.mu.Unlock()
		return core.ErrInvalidGranularity
	}
	token := uuid.New()
	s.token = token
	window := core.ComputeWindow(s.cursor)
	v.mu.Unlock()

	res, err := wallet.SeriesForWindow(ctx, v.stats, window)

	v.mu.Lock()
	defer v.mu.Unlock()
	if s.token != token {
		// A newer navigation superseded this request; drop the response.
		slog.DebugContext(ctx, "Dropping stale stats response",
			log.FieldGranularity, g,
			log.FieldWindow, window.Label(),
			log.FieldComponent, log.ComponentStats)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "Stats fetch failed",
			log.FieldGranularity, g,
			log.FieldWindow, window.Label(),
			log.FieldError, err.Error(),
			log.FieldComponent, log.ComponentStats,
			log.FieldOperation, log.OpFetch)
		s.report = nil
		s.errMsg = fmt.Sprintf("could not load %s statistics", g)
		return err
	}

	report := AssembleReport(window, res)
	if report.SeriesMismatch {
		slog.WarnContext(ctx, "Series totals disagree with summary",
			log.FieldGranularity, g,
			log.FieldWindow, window.Label(),
			log.FieldComponent, log.ComponentStats)
	}
	s.report = &report
	s.errMsg = ""
	return nil
}

// RefreshAll refetches every granularity concurrently. Each fetch fails or
// succeeds on its own; the returned error is the first failure, for logging.
func (v *StatsView) RefreshAll(ctx context.Context) error {
	var eg errgroup.Group
	for _, g := range core.Granularities() {
		g := g
		eg.Go(func() error {
			return v.Refresh(ctx, g)
		})
	}
	return eg.Wait()
}

// SetFilter replaces the filter criteria that scope the breakdown queries
// and the export. Cursor positions are unaffected.
func (v *StatsView) SetFilter(f core.FilterState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = f
}

// Filter returns the current filter criteria.
func (v *StatsView) Filter() core.FilterState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// Breakdowns fetches the filter-scoped category and source groupings.
// Results are never cached; every call is a fresh fetch.
func (v *StatsView) Breakdowns(ctx context.Context) (BreakdownReport, error) {
	b, err := v.stats.Breakdowns(ctx, v.Filter())
	if err != nil {
		slog.ErrorContext(ctx, "Breakdown fetch failed",
			log.FieldError, err.Error(),
			log.FieldComponent, log.ComponentStats,
			log.FieldOperation, log.OpFetch)
		return BreakdownReport{}, err
	}
	return AssembleBreakdowns(b), nil
}

func (v *StatsView) snapshot(g core.Granularity) GranularityState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.slots[g]
	state := GranularityState{Granularity: g, Error: s.errMsg}
	if s.report != nil {
		r := *s.report
		state.Report = &r
	}
	return state
}
