package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"NewsNavigator/internal/config"
	"NewsNavigator/internal/domain"
	"NewsNavigator/internal/logging"
	"NewsNavigator/internal/usecase"
)

const (
	readTimeout     = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Catalog is the read side the handlers list from.
type Catalog interface {
	Papers(ctx context.Context, filter usecase.Filter) ([]domain.Paper, error)
	News(ctx context.Context, filter usecase.Filter) ([]domain.NewsItem, error)
	Products(ctx context.Context, filter usecase.Filter) ([]domain.Product, error)
	Insights(ctx context.Context, filter usecase.Filter) ([]domain.Insight, error)
	LatestInsight(ctx context.Context) (*domain.Insight, error)
}

// Runner triggers the daily pipeline.
type Runner interface {
	RunDaily(ctx context.Context) usecase.Outcome
	IsRunning() bool
}

// Server exposes stored records over HTTP.
type Server struct {
	router  *chi.Mux
	catalog Catalog
	runner  Runner
	cfg     config.ServerConfig
	logger  *slog.Logger
}

// New creates a server and registers its routes.
func New(catalog Catalog, runner Runner, cfg config.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		router:  chi.NewRouter(),
		catalog: catalog,
		runner:  runner,
		cfg:     cfg,
		logger:  logger.With("component", "http"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)

	s.router.With(middleware.Timeout(readTimeout)).Get("/feed.xml", s.handleRSS)

	s.router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(readTimeout))
			r.Get("/papers", s.handlePapers)
			r.Get("/news", s.handleNews)
			r.Get("/products", s.handleProducts)
			r.Get("/insights", s.handleInsights)
			r.Get("/insights/latest", s.handleLatestInsight)
		})

		// Runs a whole pipeline, so no request timeout.
		r.Post("/admin/update", s.handleAdminUpdate)
	})
}

// Router returns the chi router.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	running := false
	if s.runner != nil {
		running = s.runner.IsRunning()
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "running": running})
}

func (s *Server) handlePapers(w http.ResponseWriter, r *http.Request) {
	papers, err := s.catalog.Papers(r.Context(), filterOf(r))
	s.respondList(w, orEmpty(papers), err)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.News(r.Context(), filterOf(r))
	s.respondList(w, orEmpty(items), err)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.Products(r.Context(), filterOf(r))
	s.respondList(w, orEmpty(products), err)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.catalog.Insights(r.Context(), filterOf(r))
	s.respondList(w, orEmpty(insights), err)
}

func (s *Server) handleLatestInsight(w http.ResponseWriter, r *http.Request) {
	insight, err := s.catalog.LatestInsight(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if insight == nil {
		writeError(w, http.StatusNotFound, "no insight yet")
		return
	}
	writeJSON(w, http.StatusOK, insight)
}

func (s *Server) handleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	if s.cfg.AdminToken == "" || s.runner == nil {
		writeError(w, http.StatusNotFound, "admin trigger disabled")
		return
	}
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "invalid admin token")
		return
	}

	s.logger.Info("manual run requested", "request_id", middleware.GetReqID(r.Context()))
	out := s.runner.RunDaily(context.WithoutCancel(r.Context()))

	status := http.StatusOK
	if out.Skipped {
		status = http.StatusConflict
	}
	writeJSON(w, status, out)
}

func (s *Server) authorized(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(s.cfg.AdminToken)) == 1
}

func filterOf(r *http.Request) usecase.Filter {
	return usecase.ParseFilter(r.URL.Query().Get("filter"))
}

func (s *Server) respondList(w http.ResponseWriter, list any, err error) {
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// orEmpty keeps empty listings encoded as [] rather than null.
func orEmpty[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
