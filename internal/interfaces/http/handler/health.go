package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/easm/dashboard/internal/domain/identity"
)

// SessionReader exposes the current session
type SessionReader interface {
	Snapshot() identity.Session
}

// HealthHandler reports liveness
type HealthHandler struct {
	BaseHandler
	sessions SessionReader
	version  string
	started  time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(sessions SessionReader, version string) *HealthHandler {
	return &HealthHandler{sessions: sessions, version: version, started: time.Now()}
}

// Health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"status":        "healthy",
		"version":       h.version,
		"uptime":        time.Since(h.started).Round(time.Second).String(),
		"session_state": h.sessions.Snapshot().State,
	})
}
