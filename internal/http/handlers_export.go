package http

import (
	"net/http"
	"sync/atomic"

	"cantina/internal/log"
)

// handleExportCSV renders the complete filtered transaction set as a CSV
// download. The filter comes from the query string; the on-screen page
// size plays no part.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter := ParseFilterParams(r.URL.Query())
	data, filename, err := s.exporter.CSV(r.Context(), filter)
	if err != nil {
		s.logs.LogError(r.Context(), "CSV export failed", err, log.ComponentExport, log.OpExport, log.NewFields())
		writeError(w, http.StatusBadGateway, "could not export transactions")
		return
	}

	atomic.AddInt64(&s.appMetrics.totalExports, 1)
	s.logs.LogExportDone(r.Context(), "csv", filename, len(data))
	writeAttachment(w, "text/csv; charset=utf-8", filename, data)
}

// handleExportPDF renders the complete filtered transaction set as a PDF
// download.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter := ParseFilterParams(r.URL.Query())
	data, filename, err := s.exporter.PDF(r.Context(), filter)
	if err != nil {
		s.logs.LogError(r.Context(), "PDF export failed", err, log.ComponentExport, log.OpExport, log.NewFields())
		writeError(w, http.StatusBadGateway, "could not export transactions")
		return
	}

	atomic.AddInt64(&s.appMetrics.totalExports, 1)
	s.logs.LogExportDone(r.Context(), "pdf", filename, len(data))
	writeAttachment(w, "application/pdf", filename, data)
}
