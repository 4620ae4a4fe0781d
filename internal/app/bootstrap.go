package app

import (
	"fmt"
	"strings"

	"jobmatch/internal/config"
	"jobmatch/internal/delivery/http/handler"
	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber *fiber.App
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	f.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	f.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())

	reg := &routes.Registry{
		Health:         handler.NewHealthHandler(c.DB),
		Auth:           middleware.NewAuthMiddleware(c.JWT).Middleware(),
		Recommendation: handler.NewRecommendationHandler(c.Recommendations),
		Certification:  handler.NewCertificationHandler(c.Certifications),
	}
	reg.Register(f)

	return &App{Fiber: f}
}

// Bootstrap builds the container and the HTTP app. The returned cleanup
// releases the database pool and the cache client.
func Bootstrap(cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	log.Info("[App] container ready",
		zap.String("env", cfg.App.Environment),
		zap.String("ml_url", cfg.ML.BaseURL),
		zap.Int("top_n", config.ClampTopN(cfg.Recommend.TopN)),
		zap.Bool("score_cache", c.Redis != nil),
	)
	return New(c), c.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
