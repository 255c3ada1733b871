package handlers

import (
	"net/http"

	"github.com/cyphera/vault-ledger/interfaces"
	"github.com/cyphera/vault-ledger/internal/db"
	"github.com/cyphera/vault-ledger/types/api/params"
	"github.com/cyphera/vault-ledger/types/api/requests"
	"github.com/cyphera/vault-ledger/types/api/responses"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// APIKeyHandler handles API key operations
type APIKeyHandler struct {
	common        *CommonServices
	logger        *zap.Logger
	apiKeyService interfaces.APIKeyService
}

// NewAPIKeyHandler creates a new API key handler
func NewAPIKeyHandler(common *CommonServices, logger *zap.Logger) *APIKeyHandler {
	return &APIKeyHandler{
		common:        common,
		logger:        logger,
		apiKeyService: common.GetAPIKeyService(),
	}
}

// Use types from the centralized packages
type CreateAPIKeyRequest = requests.CreateAPIKeyRequest
type APIKeyResponse = responses.APIKeyResponse
type ListAPIKeysResponse = responses.ListAPIKeysResponse

// toAPIKeyResponse converts a database row to the public representation
func toAPIKeyResponse(key db.ApiKey) APIKeyResponse {
	resp := APIKeyResponse{
		ID:          key.ID.String(),
		Object:      "api_key",
		Name:        key.Name,
		AccessLevel: string(key.AccessLevel),
		CreatedAt:   key.CreatedAt.Time.Unix(),
		KeyPrefix:   key.KeyPrefix.String,
	}
	if key.ExpiresAt.Valid {
		expiresAt := key.ExpiresAt.Time.Unix()
		resp.ExpiresAt = &expiresAt
	}
	if key.LastUsedAt.Valid {
		lastUsedAt := key.LastUsedAt.Time.Unix()
		resp.LastUsedAt = &lastUsedAt
	}
	return resp
}

// CreateAPIKey godoc
// @Summary Create a new API key
// @Description Creates a new API key with the specified name and access level. The full key is only returned once.
// @Tags api-keys
// @Accept json
// @Produce json
// @Param request body CreateAPIKeyRequest true "API key details"
// @Success 201 {object} APIKeyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/api-keys [post]
func (h *APIKeyHandler) CreateAPIKey(c *gin.Context) {
	var req CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	apiKey, fullKey, err := h.apiKeyService.CreateAPIKey(c.Request.Context(), params.CreateAPIKeyParams{
		Name:        req.Name,
		AccessLevel: req.AccessLevel,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to create API key", err)
		return
	}

	// Include the full key in the response (only time it's shown)
	response := toAPIKeyResponse(apiKey)
	response.Key = fullKey

	sendSuccess(c, http.StatusCreated, response)
}

// ListAPIKeys godoc
// @Summary List API keys
// @Description Retrieves all API keys that have not been revoked
// @Tags api-keys
// @Accept json
// @Produce json
// @Success 200 {object} ListAPIKeysResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/api-keys [get]
func (h *APIKeyHandler) ListAPIKeys(c *gin.Context) {
	apiKeys, err := h.apiKeyService.ListAPIKeys(c.Request.Context())
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to retrieve API keys", err)
		return
	}

	// Convert to API response format
	response := make([]APIKeyResponse, len(apiKeys))
	for i, key := range apiKeys {
		response[i] = toAPIKeyResponse(key)
	}

	listAPIKeysResponse := ListAPIKeysResponse{
		Object: "list",
		Data:   response,
		Total:  int64(len(apiKeys)),
	}

	sendSuccess(c, http.StatusOK, listAPIKeysResponse)
}

// GetAPIKeyByID godoc
// @Summary Get an API key
// @Description Retrieves a specific API key by its ID
// @Tags api-keys
// @Accept json
// @Produce json
// @Param api_key_id path string true "API Key ID"
// @Success 200 {object} APIKeyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/api-keys/{api_key_id} [get]
func (h *APIKeyHandler) GetAPIKeyByID(c *gin.Context) {
	apiKeyID := c.Param("api_key_id")
	parsedUUID, err := uuid.Parse(apiKeyID)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid UUID format", err)
		return
	}

	apiKey, err := h.apiKeyService.GetAPIKey(c.Request.Context(), parsedUUID)
	if err != nil {
		handleDBError(c, err, "API key not found")
		return
	}

	sendSuccess(c, http.StatusOK, toAPIKeyResponse(apiKey))
}

// RevokeAPIKey godoc
// @Summary Revoke an API key
// @Description Permanently disables an API key
// @Tags api-keys
// @Accept json
// @Produce json
// @Param api_key_id path string true "API Key ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/api-keys/{api_key_id} [delete]
func (h *APIKeyHandler) RevokeAPIKey(c *gin.Context) {
	apiKeyID := c.Param("api_key_id")
	parsedUUID, err := uuid.Parse(apiKeyID)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid UUID format", err)
		return
	}

	if err := h.apiKeyService.RevokeAPIKey(c.Request.Context(), parsedUUID); err != nil {
		handleDBError(c, err, "API key not found")
		return
	}

	sendSuccess(c, http.StatusNoContent, nil)
}
