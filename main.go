package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"

	"admon_backend/internals/configs"
	database "admon_backend/internals/databases"
	gateScheduler "admon_backend/internals/features/auth/gate/scheduler"
	gateService "admon_backend/internals/features/auth/gate/service"
	docService "admon_backend/internals/features/documents/contract_docs/service"
	reminderService "admon_backend/internals/features/notifications/reminders/service"
	helper "admon_backend/internals/helpers"
	ossHelper "admon_backend/internals/helpers/oss"
	middlewares "admon_backend/internals/middlewares"
	routes "admon_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		// contract PDFs are capped at 10 MiB; leave room for the multipart envelope
		BodyLimit: 16 * 1024 * 1024,
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// request id + per-request deadline, matching the DB statement_timeout
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	middlewares.SetupMiddlewares(app)

	database.ConnectDB()
	database.TunePool()
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("❌ %v", err)
	}
	database.WarmUpQueries()

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if seeded, err := gateService.SeedPassphrase(seedCtx, database.DB, configs.AdminPassphrase); err != nil {
		log.Printf("❌ seed passphrase: %v", err)
	} else if seeded {
		log.Println("✅ Admin passphrase seeded.")
	}
	cancelSeed()

	gate := gateService.NewGate(database.DB, configs.JWTSecret, configs.SessionTTL)
	gateScheduler.StartSessionCleanupScheduler(database.DB)

	var docs *docService.Service
	if oss, err := ossHelper.NewOSSServiceFromEnv("contracts"); err != nil {
		log.Printf("⚠️ blob store disabled: %v", err)
	} else {
		docs = docService.NewService(database.DB, oss)
		ossHelper.StartOrphanReaperCron(database.DB, oss, ossHelper.OrphanReaperConfigFromEnv())
	}

	notifier := reminderService.NewNotifier(configs.GetEnv("NOTIFIER_URL"), configs.GetEnv("NOTIFIER_API_KEY"))

	routes.SetupRoutes(app, database.DB, routes.Deps{
		Gate:      gate,
		Docs:      docs,
		Reminders: reminderService.NewService(database.DB, notifier),
		Loc:       configs.Location(),
		DevProxy:  middlewares.DevProxyConfigFromEnv(),
	})

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
