// Package http exposes the statistics view and the export downloads as a
// JSON API for the admin frontend.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"cantina/internal/export"
	"cantina/internal/log"
	"cantina/internal/services"
	"cantina/internal/wallet"
)

type Server struct {
	http.Server
	view     *services.StatsView
	exporter *export.Exporter
	stats    wallet.StatsReader
	logs     *log.StructuredLogger

	rateLimiter *rateLimiter

	appMetrics struct {
		uptime        time.Time
		totalRequests int64
		totalExports  int64
	}
	shutdownOnce sync.Once
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, view *services.StatsView, exporter *export.Exporter, stats wallet.StatsReader) *Server {
	mux := http.NewServeMux()
	logger := log.New(log.Config{Component: log.ComponentHTTP, Handler: slog.Default().Handler()})

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: log.Middleware(logger)(mux),
		},
		view:        view,
		exporter:    exporter,
		stats:       stats,
		logs:        log.NewStructuredLogger(logger),
		rateLimiter: newRateLimiter(),
	}
	s.appMetrics.uptime = time.Now()

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	// Statistics view
	mux.HandleFunc("/ui/stats", s.withSecurityHeaders(s.handleStatsState))
	mux.HandleFunc("/ui/breakdowns", s.withSecurityHeaders(s.handleBreakdowns))
	mux.HandleFunc("/stats/next", s.withSecurityHeaders(s.handleStatsNext))
	mux.HandleFunc("/stats/prev", s.withSecurityHeaders(s.handleStatsPrev))
	mux.HandleFunc("/stats/refresh", s.withSecurityHeaders(s.handleStatsRefresh))
	mux.HandleFunc("/stats/reset", s.withSecurityHeaders(s.handleStatsReset))

	// Export downloads
	mux.HandleFunc("/export/csv", s.withSecurityHeaders(s.handleExportCSV))
	mux.HandleFunc("/export/pdf", s.withSecurityHeaders(s.handleExportPDF))

	return s
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		// Generate request ID for tracing
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)
		atomic.AddInt64(&s.appMetrics.totalRequests, 1)

		s.logs.LogHTTPStart(ctx, r, requestID, clientIP)

		// Rate limit navigation and export triggers, not plain reads
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldComponent, log.ComponentHTTP)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Create a custom response writer to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.logs.LogHTTPEnd(ctx, r, requestID, rw.statusCode, duration.Milliseconds(), clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}
