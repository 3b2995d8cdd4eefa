package http

import (
	"context"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"finbot/internal/cache"
	"finbot/internal/ledger"
	"finbot/internal/log"
	"finbot/internal/middleware/ratelimit"
	"finbot/internal/middleware/security"
	"finbot/internal/middleware/trace"
	appweb "finbot/web"
)

const (
	defaultPlotCacheSize = 16
	defaultPlotCacheTTL  = 10 * time.Minute
	maxBodyBytes         = 1 << 20
)

// Server serves the JSON API and the embedded dashboard on top of one ledger.
type Server struct {
	http.Server
	ledger    *ledger.Ledger
	logger    *log.Logger
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	tracer    *trace.Middleware
	plotCache cache.Cache[string]

	rateLimitPerMinute int
	shutdownOnce       sync.Once
}

type Option func(*Server)

func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPlotCache replaces the default chart cache. Keys are ledger revisions.
func WithPlotCache(c cache.Cache[string]) Option {
	return func(s *Server) {
		if c != nil {
			s.plotCache = c
		}
	}
}

// WithRateLimit caps POST requests per client and minute. Zero disables it.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) { s.rateLimitPerMinute = perMinute }
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, l *ledger.Ledger, opts ...Option) *Server {
	s := &Server{
		ledger:             l,
		logger:             log.Discard(),
		detector:           security.NewDetector(),
		rateLimitPerMinute: ratelimit.DefaultConfig().RequestsPerMinute,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentHTTP)
	if s.plotCache == nil {
		s.plotCache = cache.NewLRUCache[string](defaultPlotCacheSize, defaultPlotCacheTTL)
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, s.logger)

	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
		mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFileFS(w, r, sub, "index.html")
		})
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /log_expense", s.handleLogExpense)
	mux.HandleFunc("GET /get_summary", s.handleSummary)
	mux.HandleFunc("GET /get_plot", s.handlePlot)
	mux.HandleFunc("GET /get_recommendations", s.handleRecommendations)
	mux.HandleFunc("POST /add_budget", s.handleAddBudget)
	mux.HandleFunc("GET /get_health_check", s.handleHealthCheck)
	mux.HandleFunc("GET /get_debt_plan", s.handleDebtPlan)
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("POST /save", s.handleSave)

	var handler http.Handler = mux
	if s.rateLimitPerMinute > 0 {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: s.rateLimitPerMinute,
			Logger:            s.logger,
		})
		handler = s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
			writeError(w, r, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
		}, http.MethodPost)(handler)
	}
	handler = security.CORSMiddleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.detector.Middleware(handler)
	handler = s.tracer.Middleware(handler)
	handler = log.Middleware(s.logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops background helpers and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Metrics exposes request counters collected by the trace middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		http.Error(w, "ledger not configured", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
