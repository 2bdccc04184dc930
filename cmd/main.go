package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/courtside/padel-system/brackets"
	"github.com/courtside/padel-system/config"
	"github.com/courtside/padel-system/db"
	"github.com/courtside/padel-system/handlers"
	"github.com/courtside/padel-system/repositories"
	api "github.com/courtside/padel-system/routes"
	"github.com/courtside/padel-system/services"
	"github.com/courtside/padel-system/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Duration("min_rest", cfg.MinRest))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Draw snapshots in R2 are optional; the engine runs without them.
	var uploader storage.Uploader
	if cfg.SnapshotsEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("draw snapshot publishing disabled: R2 configuration incomplete")
	}

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)
	slotRepo := repositories.NewPostgresSlotRepository(dbConn)
	courtRepo := repositories.NewPostgresCourtRepository(dbConn)
	modalityRepo := repositories.NewPostgresModalityRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	logger.Info("repositories initialized")

	drawPublisher := services.NewDrawPublisher(uploader, matchRepo, logger)

	bracketService := services.NewBracketService(
		dbConn,
		modalityRepo,
		tournamentRepo,
		teamRepo,
		matchRepo,
		groupRepo,
		slotRepo,
		wsHub,
		drawPublisher,
		logger,
	)
	matchService := services.NewMatchService(dbConn, matchRepo, wsHub, drawPublisher, logger)
	scheduleService := services.NewScheduleService(
		dbConn,
		tournamentRepo,
		modalityRepo,
		courtRepo,
		slotRepo,
		matchRepo,
		teamRepo,
		wsHub,
		cfg.MinRest,
		logger,
	)
	drawService := services.NewDrawService(modalityRepo, matchRepo, groupRepo, slotRepo)
	logger.Info("services initialized")

	h := api.Handlers{
		Bracket:   handlers.NewBracketHandler(bracketService),
		Match:     handlers.NewMatchHandler(matchService),
		Schedule:  handlers.NewScheduleHandler(scheduleService, drawService),
		Draw:      handlers.NewDrawHandler(drawService),
		WebSocket: handlers.NewWebSocketHandler(wsHub, logger),
	}
	router := api.SetupRoutes(h, []byte(cfg.JWTSecretKey))
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
