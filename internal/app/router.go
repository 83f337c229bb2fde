package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/salescope/salescope/internal/auth"
	"github.com/salescope/salescope/internal/customers"
	"github.com/salescope/salescope/internal/deposits"
	"github.com/salescope/salescope/internal/insights"
	"github.com/salescope/salescope/internal/observability"
	"github.com/salescope/salescope/internal/promotions"
	"github.com/salescope/salescope/internal/sales"
	"github.com/salescope/salescope/internal/shared"
	"github.com/salescope/salescope/internal/topups"
	"github.com/salescope/salescope/internal/users"
	"github.com/salescope/salescope/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler      *auth.Handler
	AuthMiddleware   auth.Middleware
	SalesHandler     *sales.Handler
	DepositsHandler  *deposits.Handler
	CustomersHandler *customers.Handler
	TopUpsHandler    *topups.Handler
	PromosHandler    *promotions.Handler
	UsersHandler     *users.Handler
	InsightsHandler  *insights.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(params.AuthMiddleware.ResolveSubject)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireSubject)

		r.Route("/sales", params.SalesHandler.MountRoutes)
		r.Route("/deposits", params.DepositsHandler.MountRoutes)
		r.Route("/customers", params.CustomersHandler.MountRoutes)
		r.Route("/topups", params.TopUpsHandler.MountRoutes)
		r.Route("/promotions", params.PromosHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
		params.InsightsHandler.MountRoutes(r)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
