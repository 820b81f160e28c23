package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ManuelReschke/YayaHook/app/repository"
	"github.com/ManuelReschke/YayaHook/internal/pkg/cache"
	"github.com/ManuelReschke/YayaHook/internal/pkg/config"
	"github.com/ManuelReschke/YayaHook/internal/pkg/database"
	"github.com/ManuelReschke/YayaHook/internal/pkg/env"
	"github.com/ManuelReschke/YayaHook/internal/pkg/middleware"
	"github.com/ManuelReschke/YayaHook/internal/pkg/router"
	"github.com/ManuelReschke/YayaHook/internal/pkg/webhook"
)

func main() {
	app, cfg := NewApplication()
	err := app.Listen(cfg.ListenAddr())
	log.Fatal(err)
}

func NewApplication() (*fiber.App, config.Config) {
	env.SetupEnvFile()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db := database.SetupDatabase(cfg.Database)
	rdb := cache.SetupCache(cfg.Cache)
	repos := repository.NewFactory(db)

	pipeline := webhook.NewPipeline(
		webhook.NewVerifier(cfg.WebhookSecret),
		webhook.NewReplayGuard(cache.NewReplayStore(rdb), cfg.ReplayWindow),
		repos.GetTransactionRepository(),
	)

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName:   "YayaHook",
		BodyLimit: 64 * 1024, // webhook payloads are small
	})

	// recovery, correlation id and logging
	app.Use(recover.New(), middleware.RequestID(), logger.New(logger.Config{
		Format: "${time} ${locals:request_id} ${status} - ${latency} ${method} ${path}\n",
	}))

	// ROUTER
	router.InstallRouter(app, router.Dependencies{
		Config:   cfg,
		Pipeline: pipeline,
		DB:       db,
		Redis:    rdb,
	})

	return app, cfg
}
