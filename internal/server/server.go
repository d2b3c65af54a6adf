package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tournevent/storefront/internal/auth"
	"github.com/tournevent/storefront/internal/graphql"
	"github.com/tournevent/storefront/internal/telemetry"
	"github.com/tournevent/storefront/pkg/access"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Authenticator turns requests and raw tokens into principals.
type Authenticator interface {
	Authenticate(r *http.Request) (*access.Principal, error)
	Verify(token string) (*access.Principal, error)
}

// CodeExchanger trades a sign-in code for a session.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*auth.Session, error)
}

// Pinger reports backing store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds server configuration.
type Config struct {
	Port             int
	ReadinessTimeout time.Duration
	SecureCookies    bool
}

// Deps are the collaborators the server routes requests to. Exchanger may
// be nil, in which case the auth callback is disabled.
type Deps struct {
	Calculator    graphql.QuoteCalculator
	Roles         graphql.RoleResolver
	Authenticator Authenticator
	Exchanger     CodeExchanger
	Store         Pinger
	Metrics       *telemetry.Metrics
	Gatherer      prometheus.Gatherer
	Logger        *otelzap.Logger
}

// Server is the HTTP server for the storefront service.
type Server struct {
	cfg      Config
	deps     Deps
	logger   *otelzap.Logger
	metrics  *telemetry.Metrics
	resolver *graphql.Resolver
	executor *graphql.Executor
}

// New creates a new server instance.
func New(cfg Config, deps Deps) *Server {
	if cfg.ReadinessTimeout == 0 {
		cfg.ReadinessTimeout = 2 * time.Second
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	resolver := graphql.NewResolver(deps.Calculator, deps.Roles, deps.Logger)

	return &Server{
		cfg:      cfg,
		deps:     deps,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		resolver: resolver,
		executor: graphql.NewExecutor(resolver),
	}
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Probes
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))

	// API
	mux.HandleFunc("/graphql", s.handleGraphQL)
	mux.HandleFunc("POST /api/shipping/quote", s.handleQuote)

	// Auth
	mux.HandleFunc("GET /auth/callback", s.handleAuthCallback)
	mux.HandleFunc("GET /auth/landing", s.handleLanding)

	// Guarded areas
	for _, area := range access.Areas {
		mux.HandleFunc("GET "+area.LoginPath(), s.handleLogin(area))
		gate := s.handleArea(area)
		mux.HandleFunc("GET "+area.Prefix(), gate)
		mux.HandleFunc("GET "+area.Prefix()+"/", gate)
	}

	// The access log must wrap the mux directly to see r.Pattern.
	var h http.Handler = mux
	h = s.withAccessLog(h)
	h = s.withAuthentication(h)
	h = s.withRecovery(h)
	h = withRequestID(h)
	return h
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.ReadinessTimeout)
	defer cancel()

	if err := s.deps.Store.Ping(ctx); err != nil {
		s.logger.Ctx(ctx).Warn("Readiness check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
