package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/expense-tracker/pkg/i18n"
	"github.com/FACorreiaa/expense-tracker/pkg/logger"
	"github.com/FACorreiaa/expense-tracker/pkg/metrics"
	"github.com/FACorreiaa/expense-tracker/pkg/response"
)

// NewRouter mounts every API route behind the shared middleware stack.
func NewRouter(d *Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(logger.HTTPMiddleware(d.Logger))
	if d.HTTPMetrics != nil {
		r.Use(d.HTTPMetrics.Middleware)
	}
	r.Use(cors.New(cors.Options{
		AllowedOrigins: d.Config.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", logger.RequestIDHeader, i18n.CurrencyHeader},
		ExposedHeaders: []string{logger.RequestIDHeader, "Content-Disposition"},
	}).Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.HTTPMetrics != nil {
		r.Handle("/metrics", metrics.Handler(d.Registry))
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(RateLimit(rate.NewLimiter(rate.Limit(d.Config.Server.RateLimitPerSecond), d.Config.Server.RateLimitBurst)))

		api.Get("/dashboard", d.DashboardHandler.Summary)
		api.Get("/i18n/{currency}", i18n.Handler)
		api.Route("/categories", d.CategoryHandler.Routes)
		api.Route("/transactions", func(tr chi.Router) {
			tr.Post("/import", d.ImportHandler.Import)
			d.TransactionHandler.Routes(tr)
		})
	})

	return r
}

// RateLimit rejects requests with 429 once limiter runs out of tokens.
func RateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				response.Fail(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
