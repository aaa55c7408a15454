package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"calgrid/internal/config"
	"calgrid/internal/datequery"
	"calgrid/internal/gesture"
	appLog "calgrid/internal/log"
	"calgrid/internal/metric"
	"calgrid/internal/store"
)

// Server exposes the store over a JSON API.
type Server struct {
	cfg      *config.Config
	store    *store.Store
	metrics  *metric.Metrics
	gatherer prometheus.Gatherer
	dates    *datequery.Parser
	snap     gesture.Snap
	now      func() time.Time

	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics counts requests on m and serves g on /metrics.
func WithMetrics(m *metric.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithClock sets the clock used for ICS DTSTAMP values.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer constructs a Server over st.
func NewServer(cfg *config.Config, st *store.Store, opts ...Option) *Server {
	s := &Server{
		cfg:   cfg,
		store: st,
		dates: datequery.New(),
		snap:  gesture.Snap{PixelsPerStep: cfg.Resize.PixelsPerStep, MinutesPerStep: cfg.Resize.MinutesPerStep},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// Handler returns the root handler, wrapped in basic auth when configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.router)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// Run serves on cfg.Listen until ctx is cancelled, then shuts down with a
// five second grace period.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		appLog.Info("shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.countRequests)

	r.Get("/health", s.handleHealth)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/calendar.ics", s.handleExport)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/cells", s.handleCells)

		r.Post("/events", s.handleAddEvent)
		r.Put("/events/{id}", s.handleUpdateEvent)
		r.Delete("/events/{id}", s.handleDeleteEvent)

		r.Post("/categories", s.handleAddCategory)
		r.Put("/categories/order", s.handleReorderCategories)
		r.Put("/categories/{id}", s.handleUpdateCategory)
		r.Delete("/categories/{id}", s.handleDeleteCategory)
		r.Post("/categories/{id}/toggle", s.handleToggleCategory)

		r.Post("/groups", s.handleCreateGroup)
		r.Delete("/groups/{id}", s.handleUngroup)

		r.Put("/view", s.handleSetView)
		r.Put("/date", s.handleSetDate)
		r.Post("/sidebar/toggle", s.handleToggleSidebar)
		r.Post("/navigate", s.handleNavigate)
		r.Post("/today", s.handleToday)

		r.Post("/gestures/move", s.handleGestureMove)
		r.Post("/gestures/resize", s.handleGestureResize)
		r.Post("/gestures/category", s.handleGestureCategory)

		r.Post("/import", s.handleImport)
	})

	s.router = r
}

// countRequests records one metric per request labelled with the matched
// route pattern.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		if s.metrics == nil {
			return
		}
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.Request(r.Method, route, status)
	})
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware guards every path except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="calgrid", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

// decodeJSON reads r's body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// applied writes the current snapshot on success and 409 otherwise.
func (s *Server) applied(w http.ResponseWriter, ok bool, msg string) {
	if !ok {
		writeError(w, http.StatusConflict, msg)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}
