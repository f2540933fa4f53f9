package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recipechef/internal/service"
)

// RegisterRoutes mounts all HTTP endpoints on the app.
func RegisterRoutes(app *fiber.App, chef *service.Chef, log *zap.Logger) {
	h := NewHandler(chef, log)

	app.Get("/health", h.Health)
	app.Post("/upload", h.Upload)
	app.Post("/ask", h.Ask)
	app.Post("/mealplan", h.MealPlan)
	app.Get("/documents", h.Documents)
	app.Delete("/documents/:id", h.DeleteDocument)
	app.Get("/preferences", h.Preferences)
	app.Put("/preferences", h.SetPreferences)
	app.Post("/favourites", h.SaveFavourite)
	app.Get("/favourites", h.Favourites)
	app.Delete("/favourites/:id", h.DeleteFavourite)
}
