package router

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuelReschke/YayaHook/app/controllers"
	"github.com/ManuelReschke/YayaHook/internal/pkg/constants"
)

type OpsRouter struct {
	deps Dependencies
}

func NewOpsRouter(deps Dependencies) *OpsRouter {
	return &OpsRouter{deps: deps}
}

func (h OpsRouter) InstallRouter(app *fiber.App) {
	checks := map[string]controllers.Pinger{}
	if h.deps.DB != nil {
		db := h.deps.DB
		checks["database"] = controllers.PingFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
	}
	if h.deps.Redis != nil {
		rdb := h.deps.Redis
		checks["cache"] = controllers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	hc := controllers.NewHealthController(checks)
	app.Get(constants.HealthRoute, hc.HandleHealth)
	app.Get(constants.MetricsRoute, adaptor.HTTPHandler(promhttp.Handler()))
}
