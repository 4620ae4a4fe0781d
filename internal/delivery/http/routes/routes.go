package routes

import (
	"jobmatch/internal/delivery/http/handler"
	v1 "jobmatch/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	Health         *handler.HealthHandler
	Auth           fiber.Handler
	Recommendation *handler.RecommendationHandler
	Certification  *handler.CertificationHandler
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), v1.Handlers{
		Auth:           r.Auth,
		Recommendation: r.Recommendation,
		Certification:  r.Certification,
	})
}
