package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"mission-control-server/internal/shared/database"
	"mission-control-server/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}

type HealthHandler struct {
	db *database.DB
}

func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	status := "healthy"
	dbStatus := "connected"
	if err := h.db.Ping(); err != nil {
		logger.Warn("Database ping failed", "error", err)
		status = "degraded"
		dbStatus = "disconnected"
	}

	resp := HealthResponse{
		Status:    status,
		Service:   "mission-control",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  dbStatus,
	}

	response.Success(w, http.StatusOK, resp)
}
