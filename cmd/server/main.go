package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"mission-control-server/internal/launch"
	"mission-control-server/internal/middleware"
	"mission-control-server/internal/planet"
	"mission-control-server/internal/server"
	"mission-control-server/internal/shared/config"
	"mission-control-server/internal/shared/database"
	"mission-control-server/internal/shared/logger"
	"mission-control-server/internal/shared/redis"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	logger.Init()
	cfg := config.GlobalConfig

	db, err := database.Connect()
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	if err := db.RunMigrations(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := redis.Connect()
	if err != nil {
		// The cache is an optimization; the service runs without it.
		slog.Warn("Redis unavailable, continuing without planet cache", "error", err)
		redisClient = nil
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("Failed to close Redis client", "error", err)
		}
	}()

	planetRepo := planet.NewRepository(db, slog.Default())
	planetCache := planet.NewCache(redisClient, slog.Default())
	planetService := planet.NewService(planetRepo, planetCache, slog.Default())

	launchRepo := launch.NewRepository(db, slog.Default())
	launchService := launch.NewService(launchRepo, slog.Default())

	// Phase 1: ingest the planet catalog and seed the launch registry.
	// The server must not accept traffic with a partial or unknown planet
	// set, so any failure here is fatal before the listener starts.
	if err := ingestPlanets(planetService, cfg.Dataset.Path); err != nil {
		slog.Error("Failed to ingest planet dataset", "error", err, "path", cfg.Dataset.Path)
		os.Exit(1)
	}

	if err := launchService.Seed(context.Background()); err != nil {
		slog.Error("Failed to seed launch registry", "error", err)
		os.Exit(1)
	}

	// Phase 2: accept requests.
	routes := server.NewRoutes(db, planetService, launchService, slog.Default())
	mux := routes.Setup()

	corsMiddleware := middleware.NewCORS()
	handler := corsMiddleware.Middleware(mux)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	slog.Info("Mission control server starting",
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment,
	)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func ingestPlanets(service *planet.Service, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("Failed to close dataset file", "error", err)
		}
	}()

	count, err := service.Ingest(context.Background(), f)
	if err != nil {
		return err
	}

	slog.Info("Planet dataset ingested", "habitable_planets", count, "path", path)
	return nil
}
