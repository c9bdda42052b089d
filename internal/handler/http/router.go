package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avetrov/reporthub/pkg/health"
	"github.com/avetrov/reporthub/pkg/middleware"
)

// AdminRole is the role required for role management endpoints.
const AdminRole = "Admin"

// RouterConfig carries everything the router needs to assemble the HTTP
// surface.
type RouterConfig struct {
	ServiceName string
	Logger      *slog.Logger
	Health      *health.Handler

	Auth    *AuthHandler
	Roles   *RoleHandler
	Reports *ReportHandler

	TokenValidator middleware.TokenValidator
	RateLimiter    *middleware.RateLimiter
	CORS           middleware.CORSConfig
}

// NewRouter builds the chi router with the full middleware stack and all
// routes mounted.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing(cfg.ServiceName))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimiter, "auth"))
			r.Post("/register", cfg.Auth.Register)
			r.Post("/login", cfg.Auth.Login)
			r.Post("/refresh", cfg.Auth.Refresh)
		})

		r.Route("/roles", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.TokenValidator))
			r.Use(middleware.RequireRole(AdminRole))
			r.Post("/", cfg.Roles.Create)
			r.Put("/{id}", cfg.Roles.Update)
			r.Delete("/{id}", cfg.Roles.Delete)
			r.Post("/assign", cfg.Roles.Assign)
			r.Post("/remove", cfg.Roles.Remove)
			r.Post("/reassign", cfg.Roles.Reassign)
			r.Get("/users/{login}", cfg.Roles.ListForUser)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.TokenValidator))
			r.Get("/", cfg.Reports.List)
			r.Post("/", cfg.Reports.Create)
			r.Get("/{id}", cfg.Reports.Get)
			r.Put("/{id}", cfg.Reports.Update)
			r.Delete("/{id}", cfg.Reports.Delete)
		})
	})

	return r
}
