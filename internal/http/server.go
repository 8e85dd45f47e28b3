// Package http serves the dashboard JSON API: the mirrored expense
// collection, derived summary views, the time window, theme state and the
// receipt registry, plus a CSV report download.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"expensedash/internal/attach"
	"expensedash/internal/cache"
	"expensedash/internal/stats"
	"expensedash/internal/store"
	"expensedash/internal/theme"
)

type Server struct {
	http.Server

	store       *store.Store
	attachments *attach.Registry
	themes      *theme.Manager
	agg         *stats.Aggregator

	rateLimiter  *rateLimiter
	summaryCache *cache.LRUCache[summaryResponse]
	distribCache *cache.LRUCache[[]stats.DistributionRow]
	cacheManager *cache.Manager
	shutdownOnce sync.Once

	// Injected clock so window arithmetic is testable.
	now func() time.Time
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, st *store.Store, attachments *attach.Registry, themes *theme.Manager, agg *stats.Aggregator) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:        st,
		attachments:  attachments,
		themes:       themes,
		agg:          agg,
		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRUCache[summaryResponse](16, 5*time.Minute),
		distribCache: cache.NewLRUCache[[]stats.DistributionRow](16, 5*time.Minute),
		cacheManager: cache.NewManager(),
		now:          time.Now,
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.distribCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/expenses", s.withSecurityHeaders(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.withSecurityHeaders(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses/{id}", s.withSecurityHeaders(s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.withSecurityHeaders(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withSecurityHeaders(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("GET /api/distribution", s.withSecurityHeaders(s.handleDistribution))

	mux.HandleFunc("GET /api/period", s.withSecurityHeaders(s.handleGetPeriod))
	mux.HandleFunc("PUT /api/period", s.withSecurityHeaders(s.handleSetPeriod))

	mux.HandleFunc("GET /api/theme", s.withSecurityHeaders(s.handleGetTheme))
	mux.HandleFunc("PUT /api/theme", s.withSecurityHeaders(s.handleSetTheme))
	mux.HandleFunc("POST /api/theme/toggle", s.withSecurityHeaders(s.handleToggleTheme))

	mux.HandleFunc("GET /api/expenses/{id}/receipt", s.withSecurityHeaders(s.handleGetReceipt))
	mux.HandleFunc("PUT /api/expenses/{id}/receipt", s.withSecurityHeaders(s.handlePutReceipt))
	mux.HandleFunc("DELETE /api/expenses/{id}/receipt", s.withSecurityHeaders(s.handleDeleteReceipt))

	mux.HandleFunc("GET /api/export", s.withSecurityHeaders(s.handleExport))

	return s
}

// InvalidateViews drops every cached derived view. Called after any
// collection mutation and after a background refresh.
func (s *Server) InvalidateViews() {
	s.summaryCache.Purge()
	s.distribCache.Purge()
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
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

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit mutations only; reads are cheap and cached.
		if isMutation(r.Method) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// The server is usable even while the first fetch is in flight; the
	// store reports its own loading and error state per request.
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
