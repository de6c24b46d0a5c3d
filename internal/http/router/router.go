package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"lockdesk/internal/health"
	"lockdesk/internal/http/handler"
	"lockdesk/internal/http/middleware"
	"lockdesk/internal/http/response"
)

// AdminRateLimiterFunc keeps the limiter choice (local or redis-backed) out
// of the router; wiring decides, the router applies.
type AdminRateLimiterFunc func(http.Handler) http.Handler

type Dependencies struct {
	AdminHandler      *handler.AdminHandler
	AdminRateLimiter  AdminRateLimiterFunc
	AdminRateLimitRPM int
	Readiness         *health.ProbeRunner
	EnableOTelHTTP    bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.PermissiveCORS)
	r.Use(middleware.BodyLimit(64 << 10))

	adminLimiter := dep.AdminRateLimiter
	if adminLimiter == nil {
		rpm := dep.AdminRateLimitRPM
		if rpm <= 0 {
			rpm = 60
		}
		adminLimiter = middleware.NewRateLimiter(rpm, time.Minute).Middleware()
	}

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.JSON(w, r, http.StatusServiceUnavailable, map[string]any{"status": "unready", "checks": results})
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(adminLimiter)
		// Registered for every method: the gate order inside the handler is
		// the contract, and dashboards send POST while scripts have been
		// seen using PUT. Preflights never get this far.
		r.Handle("/unlock-account", http.HandlerFunc(dep.AdminHandler.UnlockAccount))
		r.Get("/accounts/{user_id}/lockout", dep.AdminHandler.GetLockout)
		r.Get("/lockouts", dep.AdminHandler.ListLockouts)
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
