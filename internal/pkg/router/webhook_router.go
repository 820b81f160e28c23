package router

import (
	"context"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/YayaHook/app/controllers"
	"github.com/ManuelReschke/YayaHook/internal/pkg/constants"
)

// limiterRedisDB keeps rate-limit counters apart from replay markers (DB 0).
const limiterRedisDB = 2

type WebhookRouter struct {
	deps Dependencies
}

func NewWebhookRouter(deps Dependencies) *WebhookRouter {
	return &WebhookRouter{deps: deps}
}

func (h WebhookRouter) InstallRouter(app *fiber.App) {
	wc := controllers.NewWebhookController(h.deps.Pipeline, h.deps.Config.Timeout)

	limit := limiter.New(limiter.Config{
		Max:        h.deps.Config.RateLimit,
		Expiration: time.Minute,
		Storage:    newLimiterStorage(h.deps.Redis),
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests", "code": "rate_limited"})
		},
	})

	// Provider webhooks (no CSRF, signature-verified in the pipeline)
	app.Post(constants.WebhookRoute, limit, wc.HandleWebhook)
	app.Post(constants.WebhookJSONRoute, limit, wc.HandleWebhookJSON)
}

// newLimiterStorage shares counters across instances through Redis. It
// returns nil, which selects the limiter's in-memory store, when Redis is
// not reachable.
func newLimiterStorage(rdb *redis.Client) fiber.Storage {
	if rdb == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("rate limiter: redis unavailable, using in-memory counters: %v", err)
		return nil
	}

	host := "localhost"
	port := 6379
	if h, p, err := net.SplitHostPort(rdb.Options().Addr); err == nil {
		host = h
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: rdb.Options().Password,
		Database: limiterRedisDB,
		Reset:    false,
	})
}
