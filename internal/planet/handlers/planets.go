package handlers

import (
	"log/slog"
	"net/http"

	"mission-control-server/internal/planet"
	"mission-control-server/internal/shared/errors"
	"mission-control-server/internal/shared/response"
)

type PlanetsHandler struct {
	service *planet.Service
}

func NewPlanetsHandler(service *planet.Service) *PlanetsHandler {
	return &PlanetsHandler{service: service}
}

func (h *PlanetsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_planets")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	planets, err := h.service.GetAll(ctx)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if planets == nil {
		planets = []planet.Planet{}
	}

	response.Success(w, http.StatusOK, planets)
}
