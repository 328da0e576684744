package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blockarena/internal/lobby"
	"blockarena/internal/ratelimit"
)

// NewAdminRouter builds the admin/observability HTTP surface: health,
// Prometheus metrics, the debug PNG renderer, and the spectator websocket
// feed (SPEC_FULL.md §4.13). It is served on a separate port from the raw
// TCP game protocol.
func NewAdminRouter(registry *lobby.Registry, limiter *ratelimit.IPLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestMetricsMiddleware)
	r.Use(limiter.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost*"},
		AllowedMethods:   []string{"GET"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/debug/lobby/{id}/{mode}.png", newDebugRenderHandler(registry))
	r.Get("/ws/spectate/{id}/{mode}", newSpectateHandler(registry))

	return r
}

// requestMetricsMiddleware records HTTP latency/count metrics with a
// bounded route-pattern label (never the raw path, to keep cardinality
// bounded).
func requestMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = "unknown"
		}
		RecordRequest(r.Method, pattern, ww.Status(), time.Since(start))
	})
}
