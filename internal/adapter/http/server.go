package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/ev-analytics-dashboard/internal/dashboard"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/domain"
)

// DashboardService is the subset of dashboard.Service the handlers call.
type DashboardService interface {
	Compute(ctx context.Context, view string, req dashboard.Request) (domain.Dashboard, error)
	Reload(ctx context.Context) (domain.Snapshot, error)
	CheckReadiness(ctx context.Context) error
}

// Options configures the rendered page.
type Options struct {
	Addr       string
	MapTileURL string
	MapZoom    int
}

// Server exposes the dashboard page, its JSON and SVG views, reload control,
// and the health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        DashboardService
	opts       Options
	logger     *slog.Logger
}

// NewServer wires every route. notifications serves /ws and may be nil.
func NewServer(opts Options, svc DashboardService, notifications http.Handler, logger *slog.Logger) *Server {
	r := mux.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		opts:   opts,
		logger: logger,
	}

	r.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	r.HandleFunc("/readyz", sharedobs.ReadinessHandler(svc)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	r.HandleFunc("/charts/makes.svg", s.handleMakesChart).Methods(http.MethodGet)
	r.HandleFunc("/charts/years.svg", s.handleYearsChart).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/map.geojson", s.handleMap).Methods(http.MethodGet)
	api.HandleFunc("/reload", s.handleReload).Methods(http.MethodPost)

	if notifications != nil {
		r.Handle("/ws", notifications).Methods(http.MethodGet)
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
