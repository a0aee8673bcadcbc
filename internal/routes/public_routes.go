package routes

import (
	"github.com/go-chi/chi/v5"

	"adboard/internal/handlers"
	"adboard/internal/middleware"
	"adboard/internal/repository"
)

func RegisterPublicRoutes(r chi.Router, d Deps) {
	ads := handlers.NewPublicAdHandler(
		d.Snapshots,
		repository.NewAdRepository(d.DB),
		d.Monitor,
		d.Log,
		d.Config.PublicSiteURL,
	)
	catalog := handlers.NewCatalogHandler(d.Snapshots, d.Monitor)
	mapHandler := handlers.NewMapHandler(d.Snapshots, d.Monitor, d.Log)
	search := handlers.NewSearchHandler(d.Index, d.Snapshots, d.Monitor, d.Log)
	clientErrors := handlers.NewClientErrorHandler(d.Monitor)
	limiter := middleware.NewIPRateLimiter(d.Config.RateLimit.RequestsPerSecond, d.Config.RateLimit.Burst)

	r.Route("/ads", func(r chi.Router) {
		r.Get("/", ads.List)
		r.Get("/all", ads.All)
		r.Get("/recommended", ads.Recommended)
		r.Get("/{slug}", ads.Get)
		r.Get("/{slug}/qrcode", ads.QRCode)
		r.With(limiter.Middleware).Post("/{id}/{counter}", ads.IncrementCounter)
	})

	r.Get("/categories", catalog.Categories)
	r.Get("/districts", catalog.Districts)
	r.Get("/map", mapHandler.Plan)
	r.Get("/search", search.Search)
	r.Post("/client-errors", clientErrors.Report)
}
