// Package httptransport assembles the process's root router: shared
// middleware, health and metrics endpoints, and the authenticated match API.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"matchday/internal/match/handler"
	"matchday/internal/platform/metrics"
	"matchday/pkg/platform/middleware/admin"
	"matchday/pkg/platform/middleware/auth"
	"matchday/pkg/platform/middleware/request"
	"matchday/pkg/platform/middleware/requesttime"
)

const requestTimeout = 30 * time.Second

// Deps is everything the router needs. Metrics may be nil.
type Deps struct {
	Match      *handler.Handler
	Validator  auth.JWTValidator
	AdminToken string
	Metrics    *metrics.Metrics
	Health     []HealthCheck
	Logger     *slog.Logger
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(logger))
	r.Use(requesttime.Middleware)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	r.Get("/healthz", healthHandler(d.Health, logger))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))
		r.Use(auth.RequireAuth(d.Validator, logger))
		d.Match.Register(r)
	})
	r.Route("/admin", func(r chi.Router) {
		r.Use(admin.RequireAdminToken(d.AdminToken, logger))
		d.Match.RegisterAdmin(r)
	})
	return r
}
