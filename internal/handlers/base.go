package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"adboard/internal/config"
	"adboard/internal/logger"
)

// BaseHandler serves the service-level endpoints.
type BaseHandler struct {
	DB  *sql.DB
	Cfg *config.Config
	Log logger.Logger
}

func NewBaseHandler(db *sql.DB, cfg *config.Config, log logger.Logger) *BaseHandler {
	return &BaseHandler{
		DB:  db,
		Cfg: cfg,
		Log: log,
	}
}

type componentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status string          `json:"status"`
	DB     componentStatus `json:"db"`
}

func (h *BaseHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "adboard api",
		"docs":    "/swagger/index.html",
	})
}

// Health godoc
// @Tags System
// @Summary Service health
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func (h *BaseHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", DB: componentStatus{Status: "ok"}}
	if err := h.DB.PingContext(ctx); err != nil {
		h.Log.Warn("health check: database ping failed", logger.Error(err))
		resp.Status = "degraded"
		resp.DB = componentStatus{Status: "down", Error: err.Error()}
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
