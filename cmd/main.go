package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"maturity-service/internal/config"
	"maturity-service/internal/database/minio"
	"maturity-service/internal/database/postgres"
	"maturity-service/internal/database/redis"
	"maturity-service/internal/event"
	"maturity-service/internal/handlers"
	"maturity-service/internal/repository"
	"maturity-service/internal/services"
	"maturity-service/internal/worker"

	"github.com/gofiber/fiber/v3"
)

func main() {
	cfg := config.New()

	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		// Repositories need a live handle before wiring, so block here
		// until the database comes up.
		slog.Error("Failed to connect to database, retrying", "error", err)
		postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}

	redisClient, err := redis.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Object storage and the event broker are optional: the service degrades
	// to URL/free-text evidence and no notifications when they are absent.
	minioClient, err := minio.NewMinioClient(cfg.MinioCfg)
	if err != nil {
		slog.Warn("MinIO unavailable, evidence attachments disabled", "error", err)
		minioClient = nil
	}

	var notifier services.StatusNotifier
	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		slog.Warn("RabbitMQ unavailable, status notifications disabled", "error", err)
	} else {
		defer rabbitConn.Close()
		notifier = event.NewNotificationPublisher(rabbitConn)
	}

	// Repositories
	evaluationRepo := repository.NewEvaluationRepository(db)
	historyRepo := repository.NewEvaluationHistoryRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	measurementRepo := repository.NewMeasurementRepository(db)

	// Background validation workers
	pool := worker.NewWorkingPool(cfg.ValidatorCfg.WorkerCount, cfg.ValidatorCfg.QueueSize)
	poolCtx, poolCancel := context.WithCancel(context.Background())
	var poolWg sync.WaitGroup
	poolWg.Add(1)
	go pool.Start(poolCtx, &poolWg)

	// Services
	var objects services.ObjectFetcher
	var archiver services.ReportArchiver
	if minioClient != nil {
		objects = minioClient
		archiver = minioClient
	}

	validator := services.NewEvidenceValidator(objects)
	evaluationService := services.NewEvaluationService(
		evaluationRepo, historyRepo, campaignRepo,
		redisClient, redisClient, pool, validator, notifier, archiver)
	rollupService := services.NewRollupService(evaluationRepo, campaignRepo, catalogRepo)
	campaignService := services.NewCampaignService(campaignRepo)
	catalogService := services.NewCatalogService(catalogRepo, measurementRepo)
	attachmentService := services.NewAttachmentService(archiver)

	// HTTP surface
	app := fiber.New()
	app.Get("/checkhealth", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Maturity service is healthy")
	})

	handlers.NewEvaluationHandler(evaluationService, attachmentService).Register(app)
	handlers.NewCampaignHandler(campaignService, rollupService).Register(app)
	handlers.NewCatalogHandler(catalogService).Register(app)

	go func() {
		slog.Info("Starting maturity service", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down")

	if err := app.Shutdown(); err != nil {
		slog.Error("Failed to shut down HTTP server", "error", err)
	}

	poolCancel()
	poolWg.Wait()
	slog.Info("Maturity service exited")
}
