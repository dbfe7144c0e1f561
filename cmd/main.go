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

	"github.com/go-chi/chi/v5"
	"github.com/gzcarena/arena/brackets"
	"github.com/gzcarena/arena/config"
	"github.com/gzcarena/arena/db"
	"github.com/gzcarena/arena/handlers"
	"github.com/gzcarena/arena/repositories"
	"github.com/gzcarena/arena/routes"
	"github.com/gzcarena/arena/services"
	"github.com/gzcarena/arena/storage"
	_ "github.com/lib/pq"
)

const schedulerInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	bannerUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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
	logger.Info("banner storage initialized")

	wsHub := brackets.NewHub()
	go wsHub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	roleRepo := repositories.NewPostgresRoleRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)

	generator := brackets.NewSingleEliminationGenerator()

	authService := services.NewAuthService(userRepo, roleRepo)
	roleService := services.NewRoleService(roleRepo, userRepo)
	tournamentService := services.NewTournamentService(
		dbConn,
		tournamentRepo,
		participantRepo,
		matchRepo,
		bannerUploader,
		wsHub,
		logger,
	)
	participantService := services.NewParticipantService(
		dbConn,
		participantRepo,
		tournamentRepo,
		userRepo,
		wsHub,
	)
	bracketService := services.NewBracketService(
		dbConn,
		generator,
		tournamentRepo,
		participantRepo,
		matchRepo,
		wsHub,
		logger,
	)
	matchService := services.NewMatchService(dbConn, matchRepo, wsHub, logger)
	prizeService := services.NewPrizeService(
		dbConn,
		tournamentRepo,
		participantRepo,
		userRepo,
		wsHub,
		logger,
	)
	dashboardService := services.NewDashboardService(userRepo, participantRepo, roleRepo)
	logger.Info("services initialized")

	// Flips due tournaments with a generated bracket from upcoming to live.
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("tournament start scheduler running", slog.Duration("interval", schedulerInterval))

		if err := tournamentService.AutoStartDueTournaments(context.Background()); err != nil {
			logger.Error("scheduler: initial run failed", slog.Any("error", err))
		}
		for range ticker.C {
			if err := tournamentService.AutoStartDueTournaments(context.Background()); err != nil {
				logger.Error("scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	bracketHandler := handlers.NewBracketHandler(bracketService)
	participantHandler := handlers.NewParticipantHandler(participantService, prizeService)
	matchHandler := handlers.NewMatchHandler(matchService)
	adminHandler := handlers.NewAdminHandler(roleService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, tournamentService)

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		tournamentHandler,
		bracketHandler,
		participantHandler,
		matchHandler,
		adminHandler,
		dashboardHandler,
		webSocketHandler,
	)
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
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
