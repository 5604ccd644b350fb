package server

import (
	"log/slog"
	"net/http"

	"mission-control-server/internal/launch"
	launchHandlers "mission-control-server/internal/launch/handlers"
	"mission-control-server/internal/planet"
	planetHandlers "mission-control-server/internal/planet/handlers"
	serverHandlers "mission-control-server/internal/server/handlers"
	"mission-control-server/internal/shared/database"
)

type Routes struct {
	db            *database.DB
	planetService *planet.Service
	launchService *launch.Service
	logger        *slog.Logger
}

func NewRoutes(db *database.DB, planetService *planet.Service, launchService *launch.Service, logger *slog.Logger) *Routes {
	return &Routes{
		db:            db,
		planetService: planetService,
		launchService: launchService,
		logger:        logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db)
	planetsHandler := planetHandlers.NewPlanetsHandler(r.planetService)
	launchesHandler := launchHandlers.NewLaunchesHandler(r.launchService)

	mux.Handle("/api/server/health", healthHandler)
	mux.Handle("/planets", planetsHandler)
	mux.Handle("/launches", launchesHandler)
	mux.HandleFunc("/launches/{id}", launchesHandler.Abort)

	logger.Info("Routes configured successfully",
		"endpoints", []string{"/api/server/health", "/planets", "/launches", "/launches/{id}"},
	)

	return mux
}
