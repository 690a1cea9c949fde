package core

import "time"

// PeriodCursor is the calendar anchor of one statistics tab. Cursors are
// immutable values: Next and Prev return new cursors, never mutate.
//
// The anchor is always normalized to the start of the coarser unit that the
// granularity navigates by:
//
//	daily   -> Monday of the anchor's ISO week (navigates by week)
//	weekly  -> first day of the anchor's month (navigates by month)
//	monthly -> January 1 of the anchor's year  (navigates by year)
type PeriodCursor struct {
	Granularity Granularity
	Anchor      time.Time
}

// NewCursor builds a normalized cursor for the given granularity anchored
// at the period containing date.
func NewCursor(g Granularity, date time.Time) PeriodCursor {
	return PeriodCursor{Granularity: g, Anchor: normalizeAnchor(g, date)}
}

// CurrentCursor anchors a cursor at the period containing now. This is the
// default the statistics view starts from.
func CurrentCursor(g Granularity, now time.Time) PeriodCursor {
	return NewCursor(g, now)
}

// Next returns the cursor one whole navigation unit forward.
func (c PeriodCursor) Next() PeriodCursor {
	return c.step(1)
}

// Prev returns the cursor one whole navigation unit back.
func (c PeriodCursor) Prev() PeriodCursor {
	return c.step(-1)
}

func (c PeriodCursor) step(dir int) PeriodCursor {
	var moved time.Time
	switch c.Granularity {
	case Daily:
		// A week is exactly seven days, so day arithmetic is safe here.
		moved = c.Anchor.AddDate(0, 0, 7*dir)
	case Weekly:
		// Anchor is the first of a month; AddDate by one month from day 1
		// can never overshoot into the month after next.
		moved = c.Anchor.AddDate(0, dir, 0)
	case Monthly:
		// Anchor is January 1; stepping whole years from it cannot drift,
		// leap days included.
		moved = c.Anchor.AddDate(dir, 0, 0)
	default:
		moved = c.Anchor
	}
	return PeriodCursor{Granularity: c.Granularity, Anchor: normalizeAnchor(c.Granularity, moved)}
}

func normalizeAnchor(g Granularity, date time.Time) time.Time {
	d := midnightUTC(date)
	switch g {
	case Daily:
		return mondayOf(d)
	case Weekly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Monthly:
		return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

// mondayOf returns the Monday of the ISO week containing d.
func mondayOf(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return d.AddDate(0, 0, -offset)
}

func midnightUTC(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
