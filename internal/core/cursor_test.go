package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewCursor_Normalization(t *testing.T) {
	tests := []struct {
		name        string
		granularity Granularity
		in          time.Time
		wantAnchor  time.Time
	}{
		{
			name:        "daily mid-week normalizes to Monday",
			granularity: Daily,
			in:          date(2024, time.January, 10), // a Wednesday
			wantAnchor:  date(2024, time.January, 8),
		},
		{
			name:        "daily Sunday normalizes back to Monday",
			granularity: Daily,
			in:          date(2024, time.January, 14),
			wantAnchor:  date(2024, time.January, 8),
		},
		{
			name:        "daily Monday stays put",
			granularity: Daily,
			in:          date(2024, time.January, 1),
			wantAnchor:  date(2024, time.January, 1),
		},
		{
			name:        "weekly normalizes to first of month",
			granularity: Weekly,
			in:          date(2024, time.February, 29),
			wantAnchor:  date(2024, time.February, 1),
		},
		{
			name:        "monthly normalizes to January 1",
			granularity: Monthly,
			in:          date(2024, time.February, 29), // leap day input
			wantAnchor:  date(2024, time.January, 1),
		},
		{
			name:        "time of day is discarded",
			granularity: Weekly,
			in:          time.Date(2024, time.June, 15, 23, 59, 59, 0, time.UTC),
			wantAnchor:  date(2024, time.June, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.granularity, tt.in)
			if !c.Anchor.Equal(tt.wantAnchor) {
				t.Errorf("anchor = %v, want %v", c.Anchor, tt.wantAnchor)
			}
		})
	}
}

func TestCursor_NextPrevRoundTrip(t *testing.T) {
	// next() then prev() must return to the original normalized anchor,
	// for every granularity, including across month and year boundaries.
	anchors := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.December, 30), // ISO week spanning the year end
		date(2024, time.February, 29),
		date(2023, time.December, 15),
		date(2025, time.June, 11),
	}

	for _, g := range Granularities() {
		for _, a := range anchors {
			c := NewCursor(g, a)
			rt := c.Next().Prev()
			if !rt.Anchor.Equal(c.Anchor) {
				t.Errorf("%s cursor at %v: next+prev = %v, want %v", g, a, rt.Anchor, c.Anchor)
			}
			rt = c.Prev().Next()
			if !rt.Anchor.Equal(c.Anchor) {
				t.Errorf("%s cursor at %v: prev+next = %v, want %v", g, a, rt.Anchor, c.Anchor)
			}
		}
	}
}

func TestDailyCursor_NextStepsOneWeek(t *testing.T) {
	c := NewCursor(Daily, date(2024, time.January, 1)) // a Monday
	next := c.Next()
	if !next.Anchor.Equal(date(2024, time.January, 8)) {
		t.Fatalf("next anchor = %v, want 2024-01-08", next.Anchor)
	}
}

func TestWeeklyCursor_PrevCrossesYearBoundary(t *testing.T) {
	c := NewCursor(Weekly, date(2024, time.February, 1))
	prev := c.Prev()
	if !prev.Anchor.Equal(date(2024, time.January, 1)) {
		t.Fatalf("prev anchor = %v, want 2024-01-01", prev.Anchor)
	}

	// January back to December of the previous year.
	prev2 := prev.Prev()
	if !prev2.Anchor.Equal(date(2023, time.December, 1)) {
		t.Fatalf("prev anchor = %v, want 2023-12-01", prev2.Anchor)
	}
}

func TestMonthlyCursor_ThreeStepsForward(t *testing.T) {
	c := NewCursor(Monthly, date(2024, time.January, 1))
	for i := 0; i < 3; i++ {
		c = c.Next()
	}
	if !c.Anchor.Equal(date(2027, time.January, 1)) {
		t.Fatalf("anchor after three steps = %v, want 2027-01-01", c.Anchor)
	}
}

func TestCursor_Immutability(t *testing.T) {
	c := NewCursor(Daily, date(2024, time.January, 1))
	_ = c.Next()
	if !c.Anchor.Equal(date(2024, time.January, 1)) {
		t.Fatalf("Next mutated the receiver: anchor = %v", c.Anchor)
	}
}
