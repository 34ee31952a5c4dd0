package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"beatfolio/internal/config"
	"beatfolio/internal/database"
	"beatfolio/internal/handlers"
	"beatfolio/internal/health"
	"beatfolio/internal/logging"
	"beatfolio/internal/media"
	"beatfolio/internal/middleware"
	"beatfolio/internal/services"
	"beatfolio/internal/storage"
)

// Version of the application
var Version = "1.0.0"

func main() {
	appConfig, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.InitGlobalLogger(logging.LogLevel(appConfig.Log.Level), appConfig.Log.Format)

	dbManager, err := database.NewDatabaseManager(&appConfig.Database, log.Zerolog())
	if err != nil {
		logging.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbManager.Close()
	db := dbManager.DB()

	if err := database.NewMigrationManager(db, log.Zerolog()).Migrate(); err != nil {
		logging.Fatalf("Failed to run migrations: %v", err)
	}

	if appConfig.Database.Seed {
		if err := database.SeedSampleCatalog(db); err != nil {
			logging.Fatalf("Failed to seed sample catalog: %v", err)
		}
	}

	repo := services.NewRepository(db)
	disk := storage.NewPublicDisk(
		appConfig.Storage.PublicRoot,
		appConfig.Storage.PublicBaseURL,
		appConfig.Storage.MirrorDir,
	)

	app := fiber.New(fiber.Config{
		ServerHeader: "Beatfolio",
		AppName:      "Beatfolio v" + Version,
		ReadTimeout:  appConfig.Server.ReadTimeout,
		WriteTimeout: appConfig.Server.WriteTimeout,
		IdleTimeout:  appConfig.Server.IdleTimeout,
		BodyLimit:    appConfig.Server.BodyLimit,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(appConfig.Server.CORSOrigins, ","),
	}))
	app.Use(middleware.MetricsMiddleware())

	health.RegisterHealthRoutes(app, db)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app,
		handlers.NewTrackHandler(repo),
		handlers.NewUploadHandler(disk, media.NewCoverProcessor(),
			appConfig.Uploads.MaxCoverBytes, appConfig.Uploads.MaxAudioBytes),
		middleware.NewAdminRateLimiter(appConfig.RateLimit.Max, appConfig.RateLimit.Window),
		middleware.AdminToken(appConfig.Admin.Token),
	)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		logging.Infof("Shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			logging.Errorf("Error during shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", appConfig.Server.Host, appConfig.Server.Port)
	logging.Infof("Starting server on %s", addr)
	if err := app.Listen(addr); err != nil {
		logging.Errorf("Error starting server: %v", err)
	}
}
