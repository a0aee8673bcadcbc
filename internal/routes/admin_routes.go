package routes

import (
	"github.com/go-chi/chi/v5"

	"adboard/internal/handlers"
	"adboard/internal/middleware"
	"adboard/internal/models"
	"adboard/internal/repository"
)

func RegisterAdminRoutes(r chi.Router, d Deps) {
	adRepo := repository.NewAdRepository(d.DB)
	imageRepo := repository.NewImageRepository(d.DB)

	auth := handlers.NewAuthHandler(d.DB, d.Config, d.Log)
	ads := handlers.NewAdminAdHandler(adRepo, imageRepo, d.Store, d.Snapshots, d.Index, d.Log)
	images := handlers.NewImageHandler(adRepo, imageRepo, d.Store, d.Snapshots, d.Log)
	categories := handlers.NewCategoryHandler(repository.NewCategoryRepository(d.DB), d.Snapshots, d.Log)
	districts := handlers.NewDistrictHandler(repository.NewDistrictRepository(d.DB), d.Snapshots, d.Log)

	r.Post("/auth/login", auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(d.Config.JWT.Secret))
		r.Use(middleware.RequireRole(models.RoleAdmin))

		r.Get("/auth/me", auth.Me)

		r.Route("/ads", func(r chi.Router) {
			r.Get("/", ads.List)
			r.Post("/", ads.Create)
			r.Get("/export.xlsx", ads.Export)
			r.Get("/{id}", ads.Get)
			r.Put("/{id}", ads.Update)
			r.Delete("/{id}", ads.Delete)

			r.Post("/{id}/images", images.Upload)
			r.Put("/{id}/images/order", images.Reorder)
			r.Delete("/{id}/images/{imageID}", images.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.ListCategories)
			r.Post("/", categories.CreateCategory)
			r.Get("/{id}", categories.GetCategory)
			r.Put("/{id}", categories.UpdateCategory)
			r.Delete("/{id}", categories.DeleteCategory)
		})

		r.Route("/districts", func(r chi.Router) {
			r.Get("/", districts.List)
			r.Post("/", districts.Create)
			r.Get("/{id}", districts.Get)
			r.Put("/{id}", districts.Update)
			r.Delete("/{id}", districts.Delete)
		})
	})
}
