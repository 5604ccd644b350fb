package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"mission-control-server/internal/launch"
	"mission-control-server/internal/shared/errors"
	"mission-control-server/internal/shared/response"
)

type LaunchesHandler struct {
	service *launch.Service
}

func NewLaunchesHandler(service *launch.Service) *LaunchesHandler {
	return &LaunchesHandler{service: service}
}

func (h *LaunchesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.schedule(w, r)
	default:
		logger := slog.With("handler", "launches")
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
	}
}

func (h *LaunchesHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "list_launches")

	launches, err := h.service.List(ctx)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if launches == nil {
		launches = []launch.Launch{}
	}

	response.Success(w, http.StatusOK, launches)
}

func (h *LaunchesHandler) schedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "schedule_launch")

	var req launch.ScheduleRequest

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	created, err := h.service.Schedule(ctx, req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

// Abort handles DELETE /launches/{id}. The launch record survives; only its
// upcoming/success flags flip.
func (h *LaunchesHandler) Abort(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "abort_launch")

	if r.Method != http.MethodDelete {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	flightNumber, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid flight number", err))
		return
	}

	if err := h.service.Abort(ctx, flightNumber); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]bool{"ok": true})
}
