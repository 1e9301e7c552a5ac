package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	awardhandler "kudos/internal/award/handler"
	balancehandler "kudos/internal/balance/handler"
	"kudos/internal/platform/metrics"
	"kudos/internal/platform/middleware"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthFunc adapts a plain func to HealthChecker.
type HealthFunc func(ctx context.Context) error

func (f HealthFunc) Health(ctx context.Context) error { return f(ctx) }

// Deps carries everything the router mounts.
type Deps struct {
	Award          *awardhandler.Handler
	Balance        *balancehandler.Handler
	TokenValidator middleware.TokenValidator
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Health         []HealthChecker
}

// NewRouter wires all public endpoints. The awarding surface sits behind the
// admin token guard; balance reads and health do not.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Instrument(deps.Metrics))
	}
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()
		for _, check := range deps.Health {
			if err := check.Health(ctx); err != nil {
				deps.Logger.Warn("health check failed",
					"request_id", middleware.GetRequestID(ctx), "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	deps.Balance.Register(r)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin(deps.TokenValidator, deps.Logger))
		deps.Award.Register(admin)
	})

	return r
}
