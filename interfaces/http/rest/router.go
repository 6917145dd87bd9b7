package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kimtaewoo9/mansereok/infrastructure/config"
	"github.com/kimtaewoo9/mansereok/infrastructure/observability"
	"github.com/kimtaewoo9/mansereok/interfaces/http/rest/handlers"
	"github.com/kimtaewoo9/mansereok/interfaces/http/rest/middleware"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
	pkgobs "github.com/kimtaewoo9/mansereok/pkg/observability"
)

const requestTimeout = 30 * time.Second

// ReadinessChecker reports whether dependencies can serve requests.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// almanacLoadReporter is implemented by checkers that know when the almanac
// data was last installed.
type almanacLoadReporter interface {
	AlmanacLoadedAt() (time.Time, bool)
}

type readinessResponse struct {
	Status          string `json:"status"`
	AlmanacLoadedAt string `json:"almanac_loaded_at,omitempty"`
}

// Router creates and configures the HTTP router
type Router struct {
	cfg      *config.Config
	queryBus handlers.QueryAsker
	ready    ReadinessChecker
	metrics  *observability.Collector
	tracer   *pkgobs.Tracer
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	queryBus handlers.QueryAsker,
	ready ReadinessChecker,
	metrics *observability.Collector,
	tracer *pkgobs.Tracer,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:      cfg,
		queryBus: queryBus,
		ready:    ready,
		metrics:  metrics,
		tracer:   tracer,
		errors:   pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment()),
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger, rt.metrics))
	router.Use(rt.errors.Middleware)
	router.Use(rt.tracer.Middleware)

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.cfg.EnableMetrics {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.Route("/api/v1/manseryeok", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(requestTimeout))

		chartHandler := handlers.NewChartHandler(rt.queryBus, rt.errors, rt.tracer, rt.logger)
		r.Post("/calculate", chartHandler.Calculate)
		r.Post("/compatibility", chartHandler.Compatibility)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports whether the almanac is reachable
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if err := rt.ready.Ready(req.Context()); err != nil {
		rt.errors.Handle(w, req, err)
		return
	}
	resp := readinessResponse{Status: "ready"}
	if r, ok := rt.ready.(almanacLoadReporter); ok {
		if at, ok := r.AlmanacLoadedAt(); ok {
			resp.AlmanacLoadedAt = at.UTC().Format(time.RFC3339)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
