package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DutsAndrew/ck-api-sub000/internal/config"
	"github.com/DutsAndrew/ck-api-sub000/internal/database"
	"github.com/DutsAndrew/ck-api-sub000/internal/handlers"
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

	ctx := context.Background()

	db, err := database.New(ctx, cfg.MongoURI, cfg.DatabaseName, cfg.StoreTimeout)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.EnsureIndexes(ctx); err != nil {
		logger.Fatal("failed to create indexes", zap.Error(err))
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	tokenCache := services.NewTokenCache(cfg.TokenCacheSize, cfg.AccessTokenTTL)
	populator := services.NewPopulator(db)
	calendarService := services.NewCalendarService(db, populator, logger)
	noteService := services.NewNoteService(db, populator, logger)
	eventService := services.NewEventService(db, populator, logger)
	appDataService := services.NewAppDataService(db, cfg.AppData.YearsBack, cfg.AppData.YearsForward, logger)
	authService := services.NewAuthService(db, jwtService, tokenCache, calendarService, logger)

	app := handlers.NewRouter(handlers.RouterConfig{
		Auth:          handlers.NewAuthHandler(authService, logger),
		Calendars:     handlers.NewCalendarHandler(calendarService, appDataService, logger),
		Notes:         handlers.NewNoteHandler(noteService, logger),
		Events:        handlers.NewEventHandler(eventService, logger),
		Authenticator: authService,
		CORSOrigin:    cfg.CORSOrigin,
		Release:       cfg.IsProduction(),
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := db.Close(shutdownCtx); err != nil {
		logger.Error("database disconnect", zap.Error(err))
	}
	logger.Info("server stopped")
}
