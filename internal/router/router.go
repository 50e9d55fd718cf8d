package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GregMSThompson/drought-monitor/internal/handlers"
	"github.com/GregMSThompson/drought-monitor/internal/middleware"
	"github.com/GregMSThompson/drought-monitor/web"
)

const requestTimeout = 60 * time.Second

// NewRouter wires the dashboard API. auth may be nil, leaving /api public.
func NewRouter(deps *handlers.Deps, auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, web.Files, "index.html")
	})

	rfh := handlers.NewReferenceHandlers(deps)
	mph := handlers.NewMapHandlers(deps)
	srh := handlers.NewSeriesHandlers(deps)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(requestTimeout))
		if auth != nil {
			r.Use(auth)
		}
		r.Get("/indices", rfh.GetIndices)
		r.Get("/divisions", rfh.GetDivisions)
		r.Get("/selection", rfh.GetSelection)
		r.Mount("/map", mph.MapRoutes())
		r.Mount("/series", srh.SeriesRoutes())
	})
	return r
}
