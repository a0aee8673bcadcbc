package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"adboard/internal/monitor"
)

const maxClientErrorBody = 64 << 10

type ClientErrorHandler struct {
	mon       monitor.Monitor
	validator *validator.Validate
}

func NewClientErrorHandler(mon monitor.Monitor) *ClientErrorHandler {
	return &ClientErrorHandler{mon: mon, validator: validator.New()}
}

// Report godoc
// @Tags System
// @Summary Report a browser error
// @Accept json
// @Param body body monitor.ClientError true "Client error"
// @Success 202
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/client-errors [post]
func (h *ClientErrorHandler) Report(w http.ResponseWriter, r *http.Request) {
	var report monitor.ClientError
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClientErrorBody)).Decode(&report); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.validator.Struct(report); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if report.UserAgent == "" {
		report.UserAgent = r.UserAgent()
	}
	if report.Timestamp.IsZero() {
		report.Timestamp = time.Now().UTC()
	}

	h.mon.LogClientError(r.Context(), report)
	w.WriteHeader(http.StatusAccepted)
}
