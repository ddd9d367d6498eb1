// Package http exposes the ledger as a JSON API together with ledger
// downloads, health checks and Prometheus metrics.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"moneyflow/internal/cache"
	"moneyflow/internal/ledger"
	"moneyflow/internal/log"
	"moneyflow/internal/metrics"
	"moneyflow/internal/middleware/ratelimit"
	"moneyflow/internal/middleware/security"
	"moneyflow/internal/middleware/trace"
)

const (
	summaryCacheSize     = 100
	cacheCleanupInterval = 10 * time.Minute
	maxBodyBytes         = 1 << 20
)

// Options configure a Server. Zero values pick defaults.
type Options struct {
	Logger          *log.Logger
	Metrics         *metrics.Metrics
	RateLimit       ratelimit.Config
	SummaryCacheTTL time.Duration
	// Now is the clock used for default year and month, mainly for tests.
	Now func() time.Time
}

type Server struct {
	http.Server
	book    *ledger.Book
	logger  *log.Logger
	slog    *log.StructuredLogger
	metrics *metrics.Metrics
	now     func() time.Time

	rateLimiter  *ratelimit.Limiter
	summaryCache *cache.LRUCache[summaryKey, SummaryResponse]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

func NewServer(addr string, book *ledger.Book, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.SummaryCacheTTL <= 0 {
		opts.SummaryCacheTTL = 5 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	logger := opts.Logger.WithComponent(log.ComponentHTTP)
	s := &Server{
		book:         book,
		logger:       logger,
		slog:         log.NewStructuredLogger(logger),
		metrics:      opts.Metrics,
		now:          opts.Now,
		rateLimiter:  ratelimit.NewLimiter(opts.RateLimit),
		summaryCache: cache.NewLRUCache[summaryKey, SummaryResponse](summaryCacheSize, opts.SummaryCacheTTL),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(cacheCleanupInterval)

	clientIP := security.NewClientIP()

	api := http.NewServeMux()
	api.HandleFunc("GET /api/wallets", s.handleListWallets)
	api.HandleFunc("POST /api/wallets", s.handleCreateWallet)
	api.HandleFunc("PATCH /api/wallets/{id}", s.handleUpdateWallet)
	api.HandleFunc("DELETE /api/wallets/{id}", s.handleDeleteWallet)

	api.HandleFunc("GET /api/transactions", s.handleListTransactions)
	api.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	api.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	api.HandleFunc("GET /api/loans", s.handleListLoans)
	api.HandleFunc("POST /api/loans", s.handleCreateLoan)
	api.HandleFunc("POST /api/loans/{id}/payments", s.handleAddPayment)
	api.HandleFunc("DELETE /api/loans/{id}", s.handleDeleteLoan)

	api.HandleFunc("GET /api/summary", s.handleSummary)
	api.HandleFunc("GET /api/ledger", s.handleLedger)
	api.HandleFunc("GET /api/categories", s.handleCategories)

	limited := s.rateLimiter.Middleware(clientIP.Extract, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, clientIP.Extract(r),
			log.FieldPath, r.URL.Path)
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded, please try again later"})
	})(s.syncLedger(api))

	mux := http.NewServeMux()
	mux.Handle("/api/", limited)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", s.metrics.Handler())

	var handler http.Handler = mux
	handler = log.RequestIDMiddleware(trace.RequestID)(handler)
	handler = log.Middleware(logger)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.NewMiddleware(clientIP.Extract, opts.Logger).Middleware(handler)
	handler = s.metrics.Instrument(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// syncLedger picks up changes other processes saved to the shared store
// before serving a request. A failed check is logged and the request is
// served from the state already in memory.
func (s *Server) syncLedger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.book.Sync(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "Failed to sync ledger", log.FieldError, err)
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops background loops and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready once the ledger is loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.book == nil {
		http.Error(w, "ledger not loaded", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
