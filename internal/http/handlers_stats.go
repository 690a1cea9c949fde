package http

import (
	"context"
	"net/http"

	"cantina/internal/core"
	"cantina/internal/log"
	"cantina/internal/services"
)

// handleStatsState serves the current report for one granularity tab,
// fetching it on first access.
func (s *Server) handleStatsState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	g, err := ParseGranularityParam(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := s.view.State(r.Context(), g)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleStatsNext advances one tab's cursor and returns its new state.
func (s *Server) handleStatsNext(w http.ResponseWriter, r *http.Request) {
	s.handleNavigate(w, r, s.view.Next)
}

// handleStatsPrev retreats one tab's cursor and returns its new state.
func (s *Server) handleStatsPrev(w http.ResponseWriter, r *http.Request) {
	s.handleNavigate(w, r, s.view.Prev)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request,
	move func(context.Context, core.Granularity) (services.GranularityState, error)) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	g, err := ParseGranularityParam(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := move(r.Context(), g)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleStatsRefresh refetches one tab when granularity is given, or all
// three concurrently when it is not.
func (s *Server) handleStatsRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if r.URL.Query().Get("granularity") != "" {
		s.handleNavigate(w, r, func(ctx context.Context, g core.Granularity) (services.GranularityState, error) {
			s.view.Refresh(ctx, g)
			return s.view.State(ctx, g)
		})
		return
	}

	// Failures land in the per-granularity states; the refresh itself
	// always answers with the full set.
	s.view.RefreshAll(r.Context())
	writeJSON(w, http.StatusOK, s.allStates(r.Context()))
}

// handleStatsReset discards all cursors back to the current period.
func (s *Server) handleStatsReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.view.Reset()
	writeJSON(w, http.StatusOK, s.allStates(r.Context()))
}

// handleBreakdowns serves the filter-scoped category and source groupings.
func (s *Server) handleBreakdowns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.view.SetFilter(ParseFilterParams(r.URL.Query()))
	report, err := s.view.Breakdowns(r.Context())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Breakdown request failed",
			log.FieldError, err.Error(),
			log.FieldOperation, log.OpFetch)
		writeError(w, http.StatusBadGateway, "could not load breakdowns")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) allStates(ctx context.Context) []services.GranularityState {
	states := make([]services.GranularityState, 0, 3)
	for _, g := range core.Granularities() {
		if state, err := s.view.State(ctx, g); err == nil {
			states = append(states, state)
		}
	}
	return states
}
