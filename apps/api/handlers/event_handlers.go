package handlers

import (
	"net/http"

	"github.com/cyphera/vault-ledger/helpers"
	"github.com/cyphera/vault-ledger/interfaces"
	"github.com/cyphera/vault-ledger/types/api/params"
	"github.com/cyphera/vault-ledger/types/api/responses"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventHandler serves the archived ledger event feed
type EventHandler struct {
	common       *CommonServices
	logger       *zap.Logger
	eventService interfaces.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(common *CommonServices, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		common:       common,
		logger:       logger,
		eventService: common.GetEventService(),
	}
}

type ListVaultEventsResponse = responses.ListVaultEventsResponse

// ListVaultEvents godoc
// @Summary List vault events
// @Description Retrieves archived transfer and approval events, newest first. Supports offset- and page-based pagination and an optional holder filter.
// @Tags events
// @Accept json
// @Produce json
// @Param holder query string false "Only events the holder participated in"
// @Param limit query integer false "Page size (max 100, default 20)"
// @Param offset query integer false "Number of events to skip"
// @Param page query integer false "Page number (alternative to offset)"
// @Success 200 {object} ListVaultEventsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /vault/events [get]
func (h *EventHandler) ListVaultEvents(c *gin.Context) {
	pagination, err := helpers.ParsePaginationParams(c)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	holder := ""
	if holderStr := c.Query("holder"); holderStr != "" {
		addr, err := helpers.ParseAddress(holderStr)
		if err != nil {
			sendError(c, http.StatusBadRequest, "Invalid holder address", err)
			return
		}
		// Events are archived in checksummed form, so match on that
		holder = addr.Hex()
	}

	events, err := h.eventService.ListEvents(c.Request.Context(), params.ListVaultEventsParams{
		VaultAddress: h.common.GetVaultAddress(),
		Holder:       holder,
		Limit:        pagination.Limit,
		Offset:       pagination.Offset,
	})
	if err != nil {
		h.logger.Error("Failed to list vault events",
			zap.String("holder", holder),
			zap.Error(err))
		sendError(c, http.StatusInternalServerError, "Failed to retrieve vault events", err)
		return
	}

	sendSuccess(c, http.StatusOK, events)
}
