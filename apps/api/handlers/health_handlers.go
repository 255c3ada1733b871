package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/cyphera/vault-ledger/types/api/responses"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	common *CommonServices
}

// NewHealthHandler creates a new instance of HealthHandler
func NewHealthHandler(common *CommonServices) *HealthHandler {
	return &HealthHandler{common: common}
}

// Use types from the centralized packages
type HealthResponse = responses.HealthResponse

// Health godoc
// @Summary Check the health of the server
// @Description Returns a simple "ok" status without touching any dependency
// @Tags health
// @Accept json
// @Produce json
// @Tags exclude
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}

// Ready godoc
// @Summary Check the server's dependencies
// @Description Pings the event archive database and reports unavailable when it cannot be reached
// @Tags health
// @Accept json
// @Produce json
// @Tags exclude
func (h *HealthHandler) Ready(c *gin.Context) {
	pool, err := h.common.GetDBPool()
	if err != nil {
		sendError(c, http.StatusServiceUnavailable, "Database pool not configured", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		sendError(c, http.StatusServiceUnavailable, "Database unreachable", err)
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}
