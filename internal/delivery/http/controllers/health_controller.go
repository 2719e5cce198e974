package controllers

import (
	"net/http"

	"techevents/internal/delivery/http/helpers"
)

// ConnectionStatus reports whether the process holds a live database handle.
type ConnectionStatus interface {
	Status() bool
}

// HealthResponse is the data payload for GET /healthz.
type HealthResponse struct {
	Database string `json:"database"`
}

// HealthController reports service health.
type HealthController struct {
	Conn ConnectionStatus
}

// NewHealthController creates a HealthController backed by conn.
func NewHealthController(conn ConnectionStatus) *HealthController {
	return &HealthController{Conn: conn}
}

// Health godoc
// @Summary Health check
// @Description 200 while a database handle is cached, 503 otherwise.
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.database: connected"
// @Failure 503 {object} helpers.APIResponse "error: database unavailable"
// @Router /healthz [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if !c.Conn.Status() {
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.MsgUnavailable)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, HealthResponse{Database: "connected"}, "")
}
