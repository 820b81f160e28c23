package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ManuelReschke/YayaHook/internal/pkg/config"
	"github.com/ManuelReschke/YayaHook/internal/pkg/webhook"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// Dependencies are the shared collaborators handed to every router.
type Dependencies struct {
	Config   config.Config
	Pipeline *webhook.Pipeline
	DB       *gorm.DB
	Redis    *redis.Client
}

func InstallRouter(app *fiber.App, deps Dependencies) {
	setup(app, NewOpsRouter(deps), NewWebhookRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
