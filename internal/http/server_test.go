package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cantina/internal/core"
	"cantina/internal/export"
	"cantina/internal/services"
	"cantina/internal/wallet"
	"cantina/internal/wallet/memory"
)

// failingStats fails every call, for degraded-backend paths.
type failingStats struct{}

func (failingStats) DailyStats(context.Context, int, time.Month, int) (wallet.StatsResult, error) {
	return wallet.StatsResult{}, errors.New("wallet api down")
}
func (failingStats) WeeklyStats(context.Context, int, time.Month) (wallet.StatsResult, error) {
	return wallet.StatsResult{}, errors.New("wallet api down")
}
func (failingStats) MonthlyStats(context.Context, int) (wallet.StatsResult, error) {
	return wallet.StatsResult{}, errors.New("wallet api down")
}
func (failingStats) Breakdowns(context.Context, core.FilterState) (wallet.Breakdowns, error) {
	return wallet.Breakdowns{}, errors.New("wallet api down")
}
func (failingStats) ExportTransactions(context.Context, core.FilterState) ([]core.Transaction, error) {
	return nil, errors.New("wallet api down")
}
func (failingStats) ExportTransactionsPDF(context.Context, core.FilterState) ([]core.Transaction, error) {
	return nil, errors.New("wallet api down")
}

func serverNow() time.Time {
	return time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := memory.NewSeeded(serverNow())
	view := services.NewStatsView(store, serverNow)
	exporter := export.NewExporter(store, serverNow)
	srv := NewServer(":0", view, exporter, store)
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv
}

func newFailingServer(t *testing.T) *Server {
	t.Helper()
	var backend failingStats
	view := services.NewStatsView(backend, serverNow)
	exporter := export.NewExporter(backend, serverNow)
	srv := NewServer(":0", view, exporter, backend)
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv
}

func doRequest(srv *Server, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doRequest(srv, http.MethodGet, path)
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rr.Code)
		}
	}

	rr := doRequest(srv, http.MethodGet, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "http_requests_total") {
		t.Errorf("/metrics body missing request counter: %s", rr.Body.String())
	}
}

func TestReadyz_FailingBackendNotReady(t *testing.T) {
	srv := newFailingServer(t)

	rr := doRequest(srv, http.MethodGet, "/readyz")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("/readyz status = %d, want 503", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "not_ready") {
		t.Errorf("/readyz body = %s", rr.Body.String())
	}
}

func TestStatsState(t *testing.T) {
	srv := newTestServer(t)

	rr := doRequest(srv, http.MethodGet, "/ui/stats?granularity=daily")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if h := rr.Header().Get("X-Content-Type-Options"); h != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", h)
	}

	var state services.GranularityState
	if err := json.Unmarshal(rr.Body.Bytes(), &state); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if state.Granularity != core.Daily {
		t.Errorf("granularity = %s, want daily", state.Granularity)
	}
	if state.Report == nil {
		t.Fatal("report missing from state")
	}
	if len(state.Report.Points) != 7 {
		t.Errorf("daily points = %d, want 7", len(state.Report.Points))
	}
}

func TestStatsState_DefaultsToDaily(t *testing.T) {
	srv := newTestServer(t)

	rr := doRequest(srv, http.MethodGet, "/ui/stats")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var state services.GranularityState
	if err := json.Unmarshal(rr.Body.Bytes(), &state); err != nil {
		t.Fatal(err)
	}
	if state.Granularity != core.Daily {
		t.Errorf("granularity = %s, want daily", state.Granularity)
	}
}

func TestStatsState_InvalidGranularity(t *testing.T) {
	srv := newTestServer(t)

	rr := doRequest(srv, http.MethodGet, "/ui/stats?granularity=hourly")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "invalid granularity") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestStatsNavigation(t *testing.T) {
	srv := newTestServer(t)

	// Navigation mutates state; GET is not accepted.
	rr := doRequest(srv, http.MethodGet, "/stats/next?granularity=daily")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /stats/next status = %d, want 405", rr.Code)
	}

	rr = doRequest(srv, http.MethodPost, "/stats/next?granularity=daily")
	if rr.Code != http.StatusOK {
		t.Fatalf("POST /stats/next status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var state services.GranularityState
	if err := json.Unmarshal(rr.Body.Bytes(), &state); err != nil {
		t.Fatal(err)
	}
	if state.Report == nil {
		t.Fatal("report missing after navigation")
	}
	if state.Report.Window.Start != "2024-01-15" {
		t.Errorf("window start = %s, want 2024-01-15", state.Report.Window.Start)
	}

	rr = doRequest(srv, http.MethodPost, "/stats/prev?granularity=daily")
	if rr.Code != http.StatusOK {
		t.Fatalf("POST /stats/prev status = %d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &state); err != nil {
		t.Fatal(err)
	}
	if state.Report.Window.Start != "2024-01-08" {
		t.Errorf("window start after prev = %s, want 2024-01-08", state.Report.Window.Start)
	}
}

func TestStatsRefreshAndReset(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/stats/refresh", "/stats/reset"} {
		rr := doRequest(srv, http.MethodPost, path)
		if rr.Code != http.StatusOK {
			t.Fatalf("POST %s status = %d", path, rr.Code)
		}
		var states []services.GranularityState
		if err := json.Unmarshal(rr.Body.Bytes(), &states); err != nil {
			t.Fatalf("%s body is not a state list: %v", path, err)
		}
		if len(states) != 3 {
			t.Errorf("%s returned %d states, want 3", path, len(states))
		}
	}
}

func TestStatsState_FailingBackendKeepsTabRenderable(t *testing.T) {
	srv := newFailingServer(t)

	rr := doRequest(srv, http.MethodGet, "/ui/stats?granularity=monthly")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with an error state", rr.Code)
	}
	var state services.GranularityState
	if err := json.Unmarshal(rr.Body.Bytes(), &state); err != nil {
		t.Fatal(err)
	}
	if state.Report != nil {
		t.Error("failed fetch still produced a report")
	}
	if !strings.Contains(state.Error, "monthly") {
		t.Errorf("error = %q, want granularity named", state.Error)
	}
}

func TestBreakdowns(t *testing.T) {
	srv := newTestServer(t)

	rr := doRequest(srv, http.MethodGet, "/ui/breakdowns?type=expense")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var report services.BreakdownReport
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if len(report.Categories) == 0 || len(report.Sources) == 0 {
		t.Errorf("breakdowns empty: %+v", report)
	}
	for _, e := range report.Categories {
		if e.Name == string(core.CategoryTopUp) {
			t.Error("expense filter leaked a top up category")
		}
	}
}

func TestBreakdowns_FailingBackend(t *testing.T) {
	srv := newFailingServer(t)

	rr := doRequest(srv, http.MethodGet, "/ui/breakdowns")
	if rr.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rr.Code)
	}
}

func TestExportCSV(t *testing.T) {
	srv := newTestServer(t)

	rr := doRequest(srv, http.MethodGet, "/export/csv")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	cd := rr.Header().Get("Content-Disposition")
	if cd != `attachment; filename="wallet-transactions-2024-01-10.csv"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.HasPrefix(rr.Body.String(), "ID,Date,Type") {
		t.Errorf("body does not start with the header row: %q", rr.Body.String())
	}
}

func TestExportPDF(t *testing.T) {
	srv := newTestServer(t)

	rr := doRequest(srv, http.MethodGet, "/export/pdf")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(rr.Body.String(), "%PDF") {
		t.Error("body is not a PDF document")
	}
}

func TestExport_FailingBackend(t *testing.T) {
	srv := newFailingServer(t)

	for _, path := range []string{"/export/csv", "/export/pdf"} {
		rr := doRequest(srv, http.MethodGet, path)
		if rr.Code != http.StatusBadGateway {
			t.Errorf("%s status = %d, want 502", path, rr.Code)
		}
		if rr.Header().Get("Content-Disposition") != "" {
			t.Errorf("%s sent an attachment alongside the error", path)
		}
	}
}

func TestExport_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rr := doRequest(srv, http.MethodPost, "/export/csv")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 60; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d denied under the limit", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request 61 allowed over the limit")
	}
	// Other clients are unaffected.
	if !rl.allow("10.0.0.2") {
		t.Error("separate client denied")
	}
	if rl.ActiveClients() != 2 {
		t.Errorf("ActiveClients() = %d, want 2", rl.ActiveClients())
	}
}
