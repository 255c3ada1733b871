package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cyphera/vault-ledger/constants"
	"github.com/cyphera/vault-ledger/helpers"
	"github.com/cyphera/vault-ledger/internal/db"
	"github.com/cyphera/vault-ledger/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// APIKeyHeader carries the ledger API key on authenticated requests
	APIKeyHeader = "X-API-Key"

	apiKeyIDKey    = "apiKeyID"
	apiKeyLevelKey = "apiKeyLevel"
)

// APIKeyAuthMiddleware validates the X-API-Key header against stored key
// hashes and attaches the key identity to the request context.
func APIKeyAuthMiddleware(queries db.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(APIKeyHeader)
		if apiKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No API key provided"})
			c.Abort()
			return
		}

		key, err := validateAPIKey(c, queries, apiKey)
		if err != nil {
			logger.Log.Debug("API key validation failed", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(apiKeyIDKey, key.ID.String())
		c.Set(apiKeyLevelKey, string(key.AccessLevel))
		c.Next()
	}
}

// validateAPIKey finds the stored key matching the presented secret and
// checks that it is still usable.
func validateAPIKey(c *gin.Context, queries db.Querier, apiKey string) (db.ApiKey, error) {
	keyPreview := "too_short"
	if len(apiKey) > 4 {
		keyPreview = apiKey[:4] + "..."
	}
	logger.Log.Debug("Validating API key",
		zap.String("key_preview", keyPreview),
		zap.Int("key_length", len(apiKey)),
	)

	// Bcrypt hashes are not searchable, so every active key is compared.
	// The key population for a single ledger deployment is small.
	activeKeys, err := queries.GetAllActiveAPIKeys(c.Request.Context())
	if err != nil {
		logger.Log.Error("Failed to retrieve active API keys", zap.Error(err))
		return db.ApiKey{}, fmt.Errorf("authentication service error")
	}

	var key db.ApiKey
	found := false
	for _, k := range activeKeys {
		if helpers.CompareAPIKeyHash(apiKey, k.KeyHash) {
			key = k
			found = true
			break
		}
	}

	if !found {
		logger.Log.Debug("API key not found or invalid",
			zap.String("key_preview", keyPreview),
		)
		return db.ApiKey{}, fmt.Errorf("invalid API key")
	}

	if key.ExpiresAt.Valid && key.ExpiresAt.Time.Before(time.Now()) {
		logger.Log.Debug("API key expired",
			zap.String("key_id", key.ID.String()),
			zap.Time("expires_at", key.ExpiresAt.Time),
		)
		return db.ApiKey{}, fmt.Errorf("API key has expired")
	}

	// Update last used timestamp without holding up the request
	go func() {
		if err := queries.UpdateAPIKeyLastUsed(context.Background(), key.ID); err != nil {
			logger.Log.Warn("Failed to update API key last used timestamp",
				zap.String("key_id", key.ID.String()),
				zap.Error(err),
			)
		}
	}()

	return key, nil
}

// RequireAdminKey gates an endpoint on admin-level API keys. It must run
// after APIKeyAuthMiddleware.
func RequireAdminKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(apiKeyLevelKey) != constants.AdminRole {
			logger.Log.Debug("Insufficient API key access level",
				zap.String("key_id", c.GetString(apiKeyIDKey)),
				zap.String("path", c.Request.URL.Path),
			)
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin API key required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetAPIKeyID returns the authenticated key ID from the Gin context.
func GetAPIKeyID(c *gin.Context) string {
	return c.GetString(apiKeyIDKey)
}
