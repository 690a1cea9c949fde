// This file implements utilities for parsing and validating HTTP request
// data: granularity selection and the filter criteria shared by the
// breakdown and export endpoints.

package http

import (
	"net/url"
	"strings"
	"time"

	"cantina/internal/core"
)

// ParseGranularityParam extracts the granularity from query parameters,
// defaulting to daily when absent. Invalid values are an error, not a
// default: a typo must not silently switch tabs.
func ParseGranularityParam(query url.Values) (core.Granularity, error) {
	v := strings.TrimSpace(query.Get("granularity"))
	if v == "" {
		return core.Daily, nil
	}
	return core.ParseGranularity(v)
}

// ParseFilterParams extracts the list filter criteria from query
// parameters. Unknown or malformed values are ignored, matching the
// tolerant parsing of the rest of the surface.
func ParseFilterParams(query url.Values) core.FilterState {
	f := core.FilterState{
		Search:  strings.TrimSpace(query.Get("search")),
		Source:  strings.TrimSpace(query.Get("source")),
		SortBy:  strings.TrimSpace(query.Get("sortBy")),
		SortDir: strings.TrimSpace(query.Get("sortDir")),
	}

	if v := strings.TrimSpace(query.Get("type")); v != "" {
		t := core.TransactionType(strings.ToUpper(v))
		if t.Validate() == nil {
			f.Type = t
		}
	}
	if v := strings.TrimSpace(query.Get("status")); v != "" {
		st := core.TransactionStatus(strings.ToUpper(v))
		if st.Validate() == nil {
			f.Status = st
		}
	}
	if v := strings.TrimSpace(query.Get("category")); v != "" {
		f.Category = core.ParseCategory(v)
	}
	if v := strings.TrimSpace(query.Get("dateFrom")); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			f.DateFrom = d
		}
	}
	if v := strings.TrimSpace(query.Get("dateTo")); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			f.DateTo = d
		}
	}
	return f
}
