package v1

import (
	"jobmatch/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth           fiber.Handler
	Recommendation *handler.RecommendationHandler
	Certification  *handler.CertificationHandler
}

// Register mounts the candidate-facing endpoints. All of them require an
// access token.
func Register(r fiber.Router, h Handlers) {
	if r == nil || h.Auth == nil {
		return
	}

	protected := r.Group("", h.Auth)

	if h.Recommendation != nil {
		h.Recommendation.RegisterRoutes(protected)
	}
	if h.Certification != nil {
		h.Certification.RegisterRoutes(protected)
	}
}
