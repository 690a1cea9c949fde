package core

import (
	"fmt"
	"time"
)

// AggregationWindow is the concrete date range implied by a cursor. It is
// derived on demand from a cursor and never stored.
//
// Start and End are inclusive calendar days at midnight UTC. A transaction
// dated on End still belongs to the window; use ContainsInstant for
// timestamp comparisons against the end of the final day.
type AggregationWindow struct {
	Granularity Granularity
	Start       time.Time
	End         time.Time

	// Label metadata. Year is always set; Month is set for daily and
	// weekly windows; WeekNumber is the ISO week of Start, set for daily.
	// For daily windows Year is the ISO year of that week, which differs
	// from Start's calendar year when the week straddles January 1.
	Year       int
	Month      time.Month
	WeekNumber int
}

// ComputeWindow derives the aggregation window for a cursor.
//
//	daily   -> the Monday..Sunday ISO week of the anchor
//	weekly  -> the full calendar month containing the anchor
//	monthly -> the full calendar year containing the anchor
func ComputeWindow(c PeriodCursor) AggregationWindow {
	anchor := normalizeAnchor(c.Granularity, c.Anchor)
	switch c.Granularity {
	case Daily:
		// The Thursday decides which ISO year (and month) the week
		// belongs to, so Year and Month follow it rather than the
		// Monday anchor. ISOWeekStart inverts the same mapping.
		isoYear, isoWeek := anchor.ISOWeek()
		return AggregationWindow{
			Granularity: Daily,
			Start:       anchor,
			End:         anchor.AddDate(0, 0, 6),
			Year:        isoYear,
			Month:       anchor.AddDate(0, 0, 3).Month(),
			WeekNumber:  isoWeek,
		}
	case Weekly:
		return AggregationWindow{
			Granularity: Weekly,
			Start:       anchor,
			End:         anchor.AddDate(0, 1, -1), // last day of the month
			Year:        anchor.Year(),
			Month:       anchor.Month(),
		}
	case Monthly:
		return AggregationWindow{
			Granularity: Monthly,
			Start:       anchor,
			End:         time.Date(anchor.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
			Year:        anchor.Year(),
		}
	default:
		return AggregationWindow{Granularity: c.Granularity, Start: anchor, End: anchor, Year: anchor.Year()}
	}
}

// ISOWeekStart returns the Monday of the given ISO week of year.
func ISOWeekStart(year, week int) time.Time {
	// January 4 is always inside ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	return mondayOf(jan4).AddDate(0, 0, (week-1)*7)
}

// ContainsDate reports whether the calendar day of d falls inside the window.
func (w AggregationWindow) ContainsDate(d time.Time) bool {
	day := midnightUTC(d)
	return !day.Before(w.Start) && !day.After(w.End)
}

// ContainsInstant reports whether an exact timestamp falls inside the
// window, treating End as inclusive of its last instant.
func (w AggregationWindow) ContainsInstant(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End.AddDate(0, 0, 1))
}

// Label renders the window heading shown above the chart.
func (w AggregationWindow) Label() string {
	switch w.Granularity {
	case Daily:
		return fmt.Sprintf("Week %d, %s %d", w.WeekNumber, w.Month, w.Year)
	case Weekly:
		return fmt.Sprintf("%s %d", w.Month, w.Year)
	default:
		return fmt.Sprintf("%d", w.Year)
	}
}
