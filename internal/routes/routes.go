package routes

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"adboard/internal/config"
	"adboard/internal/handlers"
	"adboard/internal/interfaces"
	"adboard/internal/logger"
	appmw "adboard/internal/middleware"
	"adboard/internal/monitor"
)

// Deps are the collaborators shared by every route group.
// Index may be nil when search is not configured.
type Deps struct {
	DB        *sql.DB
	Config    *config.Config
	Log       logger.Logger
	Monitor   monitor.Monitor
	Gatherer  prometheus.Gatherer
	Snapshots handlers.SnapshotSource
	Index     interfaces.SearchIndex
	Store     interfaces.ObjectStore
}

func SetupRoutes(d Deps) *chi.Mux {
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	if d.Monitor == nil {
		d.Monitor = monitor.Nop()
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.RequestLogger(d.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Total-Count", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	base := handlers.NewBaseHandler(d.DB, d.Config, d.Log)
	r.Get("/", base.Root)
	r.Get("/health", base.Health)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	RegisterSwaggerRoutes(r)

	r.Route("/api/v1", func(r chi.Router) {
		RegisterPublicRoutes(r, d)
		r.Route("/admin", func(r chi.Router) {
			RegisterAdminRoutes(r, d)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not_found","message":"Route not found"}`))
	})

	return r
}
