// Package server provides the HTTP API and server-rendered careers pages.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/jonathan/careerpage/internal/cache"
	"github.com/jonathan/careerpage/internal/config"
	"github.com/jonathan/careerpage/internal/metrics"
	"github.com/jonathan/careerpage/internal/server/middleware"
	"github.com/jonathan/careerpage/internal/server/ratelimit"
	"github.com/jonathan/careerpage/internal/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the collaborators a server is built from.
type Deps struct {
	Store  Store
	Cache  cache.PageCache // nil disables careers page caching
	Logger *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	responder

	httpServer  *http.Server
	handler     http.Handler
	store       Store
	pageCache   cache.PageCache
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	gate        *middleware.Gate
	baseURL     string
}

// New creates a new server instance
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("store is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Cache == nil {
		deps.Cache = cache.Nop{}
	}

	passwordConfig, err := cfg.Password()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := cfg.JWT()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		responder:   responder{logger: deps.Logger},
		store:       deps.Store,
		pageCache:   deps.Cache,
		rateLimiter: ratelimit.NewLimiter(ratelimit.NewConfig(cfg.RateLimitEnabled, cfg.RateLimitDefaultLimit, cfg.RateLimitDefaultWindow)),
		jwtService:  NewJWTService(jwtConfig),
		userService: NewUserService(deps.Store, passwordConfig, cfg.RecruiterCode),
		baseURL:     cfg.PublicBaseURL,
	}
	s.gate = middleware.NewGate(s.jwtService.AsTokenValidator(), middleware.Options{
		CookieName:           cfg.AuthCookieName,
		CookieSecure:         cfg.AuthCookieSecure,
		TrustIdentityHeaders: cfg.AuthTrustIdentityHeaders,
	})
	s.authHandler = NewAuthHandler(s.userService, s.jwtService, s.gate, s.responder)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(s.routes())))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	recruiter := types.RoleRecruiter
	candidate := types.RoleCandidate

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Auth
	mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", s.authHandler.Logout)
	mux.Handle("GET /api/auth/me", s.gate.Require(s.authHandler.Me))

	// Companies
	mux.Handle("GET /api/company", s.gate.Optional(s.handleGetCompanyByQuery))
	mux.Handle("POST /api/company", s.gate.Require(s.handleCreateCompany, recruiter))
	mux.Handle("GET /api/companies", s.gate.Optional(s.handleListCompanies))
	mux.Handle("POST /api/companies", s.gate.Require(s.handleCreateCompany, recruiter))
	mux.HandleFunc("GET /api/companies/discover", s.handleDiscoverCompanies)
	mux.Handle("GET /api/company/{slug}", s.gate.Optional(s.handleGetCompany))
	mux.Handle("PUT /api/company/{slug}", s.gate.Require(s.handleUpdateCompany, recruiter))
	mux.Handle("GET /api/company/{slug}/edit", s.gate.Require(s.handleEditCompany, recruiter))
	mux.Handle("POST /api/company/{slug}/publish", s.gate.Require(s.handlePublishCompany, recruiter))
	mux.Handle("DELETE /api/company/{slug}/publish", s.gate.Require(s.handleUnpublishCompany, recruiter))
	mux.Handle("GET /api/company/{slug}/stats", s.gate.Require(s.handleCompanyStats, recruiter))
	mux.Handle("GET /api/company/{slug}/applications", s.gate.Require(s.handleListCompanyApplications, recruiter))

	// Sections
	mux.Handle("POST /api/company/{slug}/sections", s.gate.Require(s.handleAddSection, recruiter))
	mux.Handle("PATCH /api/company/{slug}/sections/{id}", s.gate.Require(s.handleUpdateSection, recruiter))
	mux.Handle("DELETE /api/company/{slug}/sections/{id}", s.gate.Require(s.handleRemoveSection, recruiter))
	mux.Handle("POST /api/company/{slug}/sections/{id}/move", s.gate.Require(s.handleMoveSection, recruiter))
	mux.Handle("GET /api/company/{slug}/render", s.gate.Optional(s.handleRenderCompany))
	mux.HandleFunc("POST /api/render", s.handleRenderSections)

	// Jobs and applications
	mux.Handle("GET /api/jobs", s.gate.Optional(s.handleListJobs))
	mux.Handle("POST /api/jobs", s.gate.Require(s.handleCreateJob, recruiter))
	mux.Handle("PUT /api/jobs/{id}", s.gate.Require(s.handleUpdateJob, recruiter))
	mux.Handle("DELETE /api/jobs/{id}", s.gate.Require(s.handleDeleteJob, recruiter))
	mux.Handle("POST /api/jobs/{id}/apply", s.gate.Require(s.handleApply, candidate))
	mux.Handle("GET /api/applications/my-applications", s.gate.Require(s.handleMyApplications, candidate))
	mux.Handle("GET /api/applications/my-job-ids", s.gate.Require(s.handleMyJobIDs, candidate))
	mux.Handle("PUT /api/applications/{id}", s.gate.Require(s.handleUpdateApplicationStatus, recruiter))

	// Search and dashboard
	mux.HandleFunc("GET /api/search/companies", s.handleSearchCompanies)
	mux.HandleFunc("GET /api/search/jobs", s.handleSearchJobs)
	mux.Handle("GET /api/dashboard/recruiter-stats", s.gate.Require(s.handleRecruiterStats, recruiter))

	// Pages
	mux.HandleFunc("GET /{company}/careers", s.handleCareersPage)
	mux.Handle("GET /{company}/preview", s.gate.Require(s.handlePreviewPage, recruiter))

	return mux
}

// Start begins listening for requests and blocks until ctx is cancelled or
// the process receives SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.rateLimiter.Stop()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request and records request metrics. The route label
// is the matched mux pattern, so path parameters do not explode cardinality.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		} else if _, pattern, ok := strings.Cut(route, " "); ok {
			route = pattern
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, fmt.Sprintf("%d", m.Code)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(m.Duration.Seconds())

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", m.Code),
			zap.Duration("duration", m.Duration),
			zap.Int64("bytes", m.Written),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleHealth reports server and database health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Too many requests",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"resetAt":   info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds()) + 1
		response["retryAfter"] = secs
		w.Header().Set("Retry-After", fmt.Sprintf("%d", secs))
	}

	s.logger.Warn("rate limit exceeded",
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
