package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reviewme/catalog/pkg/health"
	"github.com/reviewme/catalog/pkg/middleware"
)

// RouterConfig carries the cross-cutting settings the router needs.
type RouterConfig struct {
	ServiceName string
	Logger      *slog.Logger
	CORS        middleware.CORSConfig
	PprofCIDRs  []string
}

// NewRouter assembles the HTTP router: middleware chain, operational
// endpoints and the product/review API.
func NewRouter(cfg RouterConfig, products *ProductHandler, reviews *ReviewHandler, healthHandler *health.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if len(cfg.PprofCIDRs) > 0 {
		middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)
	}

	r.Route("/products", products.Routes)
	r.Route("/reviews", reviews.Routes)

	return r
}
