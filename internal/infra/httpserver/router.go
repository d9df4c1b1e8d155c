package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appdashboard "github.com/bryanwahyu/unit-monitor/internal/application/dashboard"
	appfailures "github.com/bryanwahyu/unit-monitor/internal/application/failures"
	appunits "github.com/bryanwahyu/unit-monitor/internal/application/units"
	"github.com/bryanwahyu/unit-monitor/internal/domain/menu"
	"github.com/bryanwahyu/unit-monitor/internal/middleware"
)

// Deps wires the router. Metrics, RateLimiter and the health checkers are optional.
type Deps struct {
	Units     *appunits.Service
	Failures  *appfailures.Service
	Dashboard *appdashboard.Service

	Metrics        *middleware.Metrics
	RateLimiter    *middleware.RateLimiter
	Health         map[string]middleware.HealthChecker
	Ready          middleware.HealthChecker
	AllowedOrigins []string
	Started        time.Time
}

type Router struct {
	unitsSvc     *appunits.Service
	failuresSvc  *appfailures.Service
	dashboardSvc *appdashboard.Service
	metrics      *middleware.Metrics
	menu         []menu.Item
}

func NewRouter(d Deps) http.Handler {
	r := &Router{
		unitsSvc:     d.Units,
		failuresSvc:  d.Failures,
		dashboardSvc: d.Dashboard,
		metrics:      d.Metrics,
		menu:         menu.Default(),
	}
	if d.Started.IsZero() {
		d.Started = time.Now()
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.LoggingMiddleware)
	if d.Metrics != nil {
		mux.Use(d.Metrics.Middleware)
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if d.RateLimiter != nil {
		mux.Use(d.RateLimiter.Handler)
	}

	mux.Get("/health", middleware.HealthHandler(d.Started, d.Health))
	mux.Get("/ready", middleware.ReadinessHandler(d.Ready))
	mux.Get("/live", middleware.LivenessHandler)
	if d.Metrics != nil {
		mux.Handle("/metrics", d.Metrics.Handler())
	}

	mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "not_found", "route not found")
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	mux.Route("/api", func(rt chi.Router) {
		rt.Get("/menu/", r.wrap(r.handleMenu))

		rt.Get("/unidades/", r.wrap(r.handleListUnits))
		rt.Post("/unidades/", r.wrap(r.handleCreateUnit))
		rt.Get("/unidades/{id}/", r.wrap(r.handleGetUnit))
		rt.Put("/unidades/{id}/", r.wrap(r.handleUpdateUnit))
		rt.Delete("/unidades/{id}/", r.wrap(r.handleDeleteUnit))
		rt.Get("/unidades/{id}/falhas/", r.wrap(r.handleUnitHistory))

		rt.Get("/falhas/", r.wrap(r.handleListFailures))
		rt.Post("/falhas/", r.wrap(r.handleCreateFailure))
		rt.Get("/falhas/detalhadas/", r.wrap(r.handleDetailedFailures))
		rt.Get("/falhas/{id}/", r.wrap(r.handleGetFailure))
		rt.Put("/falhas/{id}/", r.wrap(r.handleUpdateFailure))
		rt.Patch("/falhas/{id}/", r.wrap(r.handlePatchFailure))

		rt.Get("/dashboard/", r.wrap(r.handleDashboard))
		rt.Get("/dashboard/falhas/", r.wrap(r.handleDashboardDetails))
		rt.Post("/dashboard/exportar/", r.wrap(r.handleExport))
		rt.Post("/dashboard/resumo/", r.wrap(r.handleDigest))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			writeError(w, req, err)
		}
	}
}

// GET /api/menu/?path=
func (r *Router) handleMenu(w http.ResponseWriter, req *http.Request) error {
	if path := req.URL.Query().Get("path"); path != "" {
		item, err := menu.Find(r.menu, path)
		if err != nil {
			return err
		}
		return middleware.WriteJSON(w, http.StatusOK, item)
	}
	return middleware.WriteJSON(w, http.StatusOK, r.menu)
}
