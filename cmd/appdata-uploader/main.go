package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DutsAndrew/ck-api-sub000/internal/config"
	"github.com/DutsAndrew/ck-api-sub000/internal/database"
	"github.com/DutsAndrew/ck-api-sub000/internal/logging"
	"github.com/DutsAndrew/ck-api-sub000/internal/services"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.MongoURI, cfg.DatabaseName, cfg.StoreTimeout)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close(context.Background()) }()

	svc := services.NewAppDataService(db, cfg.AppData.YearsBack, cfg.AppData.YearsForward, logger)

	if err := upload(ctx, svc, logger); err != nil && cfg.AppData.UploadInterval <= 0 {
		stop()
		os.Exit(1)
	}
	if cfg.AppData.UploadInterval <= 0 {
		return
	}

	ticker := time.NewTicker(cfg.AppData.UploadInterval)
	defer ticker.Stop()
	logger.Info("uploader running", zap.Duration("interval", cfg.AppData.UploadInterval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("uploader stopped")
			return
		case <-ticker.C:
			_ = upload(ctx, svc, logger)
		}
	}
}

func upload(ctx context.Context, svc *services.AppDataService, logger *zap.Logger) error {
	if _, err := svc.Upload(ctx, time.Now()); err != nil {
		logger.Error("app data upload failed", zap.Error(err))
		return err
	}
	return nil
}
