package main

import (
	"context"
	"os"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/clipforge/clipforge/config"
	"github.com/clipforge/clipforge/internal/db"
	"github.com/clipforge/clipforge/internal/db/repos"
	"github.com/clipforge/clipforge/internal/dispatcher"
	"github.com/clipforge/clipforge/internal/logger"
	"github.com/clipforge/clipforge/internal/manifest"
	"github.com/clipforge/clipforge/internal/platforms"
	"github.com/clipforge/clipforge/internal/services"
	"github.com/clipforge/clipforge/internal/storage"
	"github.com/clipforge/clipforge/pkg/api/v1/handlers"
	"github.com/clipforge/clipforge/pkg/api/v1/routes"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env file loaded: %v", err)
	}
	logger.InitializeAndConfigure()

	database, err := db.New(db.Options{
		Host:     config.GetEnv("DB_HOST", ""),
		User:     config.GetEnv("DB_USER", ""),
		Password: config.GetEnv("DB_PASSWORD", ""),
		DBName:   config.GetEnv("DB_NAME", ""),
		Port:     config.GetEnvInt("DB_PORT", 0),
	})
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}

	registry, err := platforms.NewDefaultRegistry(config.CredentialsDir())
	if err != nil {
		logger.Fatalf("failed to build destination registry: %v", err)
	}

	manifests := manifest.NewStore(config.OutputRoot())

	// Optional S3 media host for destinations that ingest by URL
	var media storage.MediaHost
	if s3cfg := storage.S3ConfigFromEnv(); s3cfg.Bucket != "" {
		host, err := storage.NewS3Host(s3cfg)
		if err != nil {
			logger.Fatalf("failed to configure S3 media host: %v", err)
		}
		media = host
		logger.Infof("media host: s3://%s", s3cfg.Bucket)
	}

	jobRepo := repos.NewPublishJobRepository(database)
	d := dispatcher.New(registry)
	parallel := config.GetEnv("CLIPFORGE_SEQUENTIAL", "") == ""

	scheduler := services.NewScheduler(jobRepo, manifests, registry, media)
	processor := services.NewProcessor(jobRepo, manifests, d, parallel)
	jobs := services.NewJobs(jobRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	routes.RegisterRoutes(
		app,
		handlers.NewJobHandler(scheduler, processor, jobs),
		handlers.NewDestinationHandler(registry),
	)

	// Background processing loop, disabled when the interval is zero
	if interval := config.GetEnvDuration("CLIPFORGE_PROCESS_INTERVAL", 0); interval > 0 {
		go runProcessLoop(processor, interval)
	}

	port := config.GetEnv("CLIPFORGE_PORT", routes.DefaultPort)
	logger.Infof("listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		logger.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}

// runProcessLoop triggers a processing run on a fixed interval.
func runProcessLoop(processor *services.Processor, interval time.Duration) {
	logger.Infof("processing loop: every %s", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if _, err := processor.ProcessDue(context.Background(), services.ProcessOptions{}); err != nil {
			logger.Errorf("processing run failed: %v", err)
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
