// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"finflow-tracker/internal/api/handler"
	"finflow-tracker/internal/metrics"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	transactionHandler *handler.TransactionHandler,
	goalHandler *handler.GoalHandler,
	collector *metrics.Collector,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)                       // Add a request ID to the context
	r.Use(middleware.RealIP)                          // Use the real IP address
	r.Use(middleware.Logger)                          // Log HTTP requests
	r.Use(middleware.Recoverer)                       // Recover from panics and return 500
	r.Use(middleware.Timeout(handler.DefaultTimeout)) // Set a default timeout for requests
	r.Use(instrument(collector))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Transaction API routes. Fixed paths are registered before /{id}.
	r.Route("/transactions", func(r chi.Router) {
		r.Post("/", transactionHandler.Create)
		r.Get("/", transactionHandler.List)
		r.Get("/stats", transactionHandler.Stats)
		r.Get("/summary", transactionHandler.Summary)
		r.Get("/by-category", transactionHandler.ByCategory)
		r.Get("/{id}", transactionHandler.Get)
		r.Patch("/{id}", transactionHandler.Update)
		r.Delete("/{id}", transactionHandler.Delete)
	})

	// Goal API routes
	r.Route("/goals", func(r chi.Router) {
		r.Post("/", goalHandler.Create)
		r.Get("/", goalHandler.List)
		r.Get("/active", goalHandler.Active)
		r.Get("/completed", goalHandler.Completed)
		r.Get("/overdue", goalHandler.Overdue)
		r.Get("/stats", goalHandler.Stats)
		r.Get("/{id}", goalHandler.Get)
		r.Patch("/{id}", goalHandler.Update)
		r.Delete("/{id}", goalHandler.Delete)
		r.Patch("/{id}/progress", goalHandler.Progress)
	})

	logger.Debug("HTTP routes registered")
	return r
}

// instrument records request counts and latency per matched route pattern,
// so /goals/{id} is one series regardless of id.
func instrument(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			collector.ObserveRequest(r.Method, route, status, time.Since(start))
		})
	}
}
