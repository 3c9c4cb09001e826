package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/shopforge/shopforge/app/repository"
	"github.com/shopforge/shopforge/internal/pkg/cache"
	"github.com/shopforge/shopforge/internal/pkg/database"
	"github.com/shopforge/shopforge/internal/pkg/env"
	"github.com/shopforge/shopforge/internal/pkg/jobqueue"
	"github.com/shopforge/shopforge/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	// Repositories back the order API and the inventory jobs
	repository.InitializeFactory(database.GetDB())

	// Background jobs: confirmation mails, alert SMS, inventory, stale sweeps
	jobqueue.GetManager().Start()

	// init fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 1048576, // 1 MiB, webhook payloads are small
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// ROUTER
	router.InstallRouter(app)

	app.Hooks().OnShutdown(func() error {
		jobqueue.GetManager().Stop()
		return nil
	})

	return app
}
