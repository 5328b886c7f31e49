// Package http exposes the ledger and its derived reports as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"libretto/internal/cache"
	"libretto/internal/ledger"
	applog "libretto/internal/log"
	"libretto/internal/middleware/trace"
)

type Server struct {
	http.Server
	ledger      *ledger.Ledger
	logger      *applog.Logger
	rateLimiter *rateLimiter

	// Report payloads are memoized keyed by period and ledger revision,
	// so any mutation naturally misses the cache.
	dashboardCache *cache.LRU[[]byte]
	statementCache *cache.LRU[[]byte]

	cancelSweep  context.CancelFunc
	shutdownOnce sync.Once
}

// Options tunes the server's report cache.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, led *ledger.Ledger, logger *applog.Logger, opts Options) *Server {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 64
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:         led,
		logger:         logger.WithComponent(applog.ComponentHTTP),
		rateLimiter:    newRateLimiter(),
		dashboardCache: cache.NewLRU[[]byte](opts.CacheSize, opts.CacheTTL),
		statementCache: cache.NewLRU[[]byte](opts.CacheSize, opts.CacheTTL),
	}

	sweepCtx, cancel := context.WithCancel(context.Background())
	s.cancelSweep = cancel
	go cache.Janitor(sweepCtx, 10*time.Minute, s.dashboardCache, s.statementCache)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/sales", s.guard(s.handleSales))
	mux.HandleFunc("/api/sales/", s.guard(s.handleSaleByID))
	mux.HandleFunc("/api/expenses", s.guard(s.handleExpenses))
	mux.HandleFunc("/api/expenses/", s.guard(s.handleExpenseByID))
	mux.HandleFunc("/api/vendors", s.guard(s.handleVendors))
	mux.HandleFunc("/api/vendors/", s.guard(s.handleVendorByID))
	mux.HandleFunc("/api/dashboard", s.guard(s.handleDashboard))
	mux.HandleFunc("/api/statement", s.guard(s.handleStatement))
	mux.HandleFunc("/api/view", s.guard(s.handleView))

	// Outermost the tracer stamps the request ID, then the context logger
	// picks it up so handlers log with it attached.
	requestID := func(r *http.Request) string { return trace.GetRequestID(r.Context()) }
	handler := applog.RequestIDMiddleware(requestID)(mux)
	handler = applog.Middleware(s.logger)(handler)
	tracer := trace.NewMiddleware(logger, clientIP)
	s.Server.Handler = tracer.Wrap(handler)

	return s
}

// guard applies security headers and rate limiting to mutating requests.
func (s *Server) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if mutating(r.Method) && !s.rateLimiter.allow(ip) {
			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				applog.FieldClientIP, ip, applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next(w, r)
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// clientIP extracts the client address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// Shutdown stops the cache janitor, the rate limiter, and the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.cancelSweep != nil {
			s.cancelSweep()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
