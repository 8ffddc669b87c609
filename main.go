package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"recycling-rewards-backend/config"
	"recycling-rewards-backend/handlers"
	"recycling-rewards-backend/middleware"
	"recycling-rewards-backend/repository"
	"recycling-rewards-backend/services"
	"recycling-rewards-backend/utils"
	"recycling-rewards-backend/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal("failed to migrate database: ", err)
	}
	if err := repository.Seed(db); err != nil {
		log.Fatal("failed to seed reference data: ", err)
	}
	store := repository.NewStore(db)

	var uploader services.Uploader
	if cfg.Storage.Enabled() {
		objects, err := utils.NewObjectStore(ctx, cfg.Storage)
		if err != nil {
			log.Fatal("failed to initialize object storage: ", err)
		}
		uploader = objects
	} else {
		utils.LogWarn("STORAGE_ENDPOINT/STORAGE_BUCKET not set, image uploads are disabled")
	}

	ledger := services.NewPointsLedger(store, time.Now)
	engine := services.NewVoucherEngine(store, cfg.VoucherValidity, cfg.VoucherCodeAttempts, time.Now)
	vouchers := services.NewVoucherLifecycle(store, time.Now)

	var sweep services.Sweeper
	if cfg.MailServiceURL != "" {
		mail := services.NewMailClient(cfg.MailServiceURL, cfg.MailServiceToken)
		sweep = workers.NewInactiveUserSweep(store.Users(), mail, cfg.InactiveAfter, cfg.NotifyWorkers)
	} else {
		utils.LogWarn("MAIL_SERVICE_URL not set, inactive-user reminders are disabled")
	}

	scheduler, err := services.StartScheduler(ctx, ledger, cfg.PointsResetCron, sweep, cfg.InactiveSweepCron)
	if err != nil {
		log.Fatal("failed to start scheduler: ", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 8 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Role",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// 🔐❗ Only the gateway may call this service
	app.Use(middleware.GatewayAuthMiddleware(cfg.GatewayToken))

	handlers.SetupRoutes(app, handlers.Services{
		Users:       services.NewUserService(store, ledger, vouchers),
		Ledger:      ledger,
		Activities:  services.NewActivityService(store, ledger, engine, time.Now),
		Vouchers:    vouchers,
		Leaderboard: services.NewLeaderboardRanker(store),
		Catalog:     services.NewCatalogService(store, uploader),
		Content:     services.NewContentService(store, uploader),
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	utils.LogSuccess("Server running on http://localhost:%s", cfg.Port)
	utils.LogInfo("CORS configured for origins: %s", strings.Join(cfg.AllowedOrigins, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")

	if err := scheduler.Shutdown(); err != nil {
		utils.LogWarn("scheduler shutdown: %v", err)
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		utils.LogWarn("server shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
