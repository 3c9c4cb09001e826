package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/shopforge/shopforge/app/controllers"
	"github.com/shopforge/shopforge/internal/pkg/cache"
	"github.com/shopforge/shopforge/internal/pkg/env"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    newLimiterStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// Provider webhook endpoints. These carry their own authentication via
	// signature headers.
	webhooks := api.Group("/webhooks")
	webhooks.Post("/stripe", controllers.HandleStripeWebhook)
	webhooks.Post("/square", controllers.HandleSquareWebhook)

	// Order read API
	api.Get("/orders", controllers.HandleListOrders)
	api.Get("/orders/:id", controllers.HandleGetOrder)
}

// newLimiterStorage backs the rate limiter with Redis so limits hold across
// instances. Uses database 1, the cache itself uses DB 0.
func newLimiterStorage() *redisstorage.Storage {
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient := cache.GetClient(); cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
