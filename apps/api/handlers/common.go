package handlers

import (
	"errors"
	"net/http"

	"github.com/cyphera/vault-ledger/interfaces"
	"github.com/cyphera/vault-ledger/internal/db"
	"github.com/cyphera/vault-ledger/logger"
	"github.com/cyphera/vault-ledger/vault"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// CommonServices holds common dependencies used across handlers
type CommonServices struct {
	db db.Querier
	// dbPool is kept separate so the readiness probe can ping the database
	dbPool        *pgxpool.Pool
	vaultAddress  string
	logger        *zap.Logger
	VaultService  interfaces.VaultService
	EventService  interfaces.EventService
	APIKeyService interfaces.APIKeyService
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// CommonServicesConfig contains all dependencies needed to create CommonServices
type CommonServicesConfig struct {
	DB            db.Querier
	DBPool        *pgxpool.Pool // Optional: enables the database readiness probe
	VaultAddress  string
	Logger        *zap.Logger
	VaultService  interfaces.VaultService
	EventService  interfaces.EventService
	APIKeyService interfaces.APIKeyService
}

// NewCommonServices creates a new instance of CommonServices with interface dependencies
func NewCommonServices(config CommonServicesConfig) *CommonServices {
	if config.Logger == nil {
		config.Logger = logger.Log
	}

	return &CommonServices{
		db:            config.DB,
		dbPool:        config.DBPool,
		vaultAddress:  config.VaultAddress,
		logger:        config.Logger,
		VaultService:  config.VaultService,
		EventService:  config.EventService,
		APIKeyService: config.APIKeyService,
	}
}

// GetDB returns the database querier
func (s *CommonServices) GetDB() db.Querier {
	return s.db
}

// GetDBPool returns the underlying database pool
func (s *CommonServices) GetDBPool() (*pgxpool.Pool, error) {
	if s.dbPool != nil {
		return s.dbPool, nil
	}
	return nil, errors.New("pool not available - please provide DBPool in CommonServicesConfig")
}

// GetVaultAddress returns the ledger's vault address
func (s *CommonServices) GetVaultAddress() string {
	return s.vaultAddress
}

// GetLogger returns the logger
func (s *CommonServices) GetLogger() *zap.Logger {
	return s.logger
}

// GetVaultService returns the vault service interface
func (s *CommonServices) GetVaultService() interfaces.VaultService {
	return s.VaultService
}

// GetEventService returns the event service interface
func (s *CommonServices) GetEventService() interfaces.EventService {
	return s.EventService
}

// GetAPIKeyService returns the API key service interface
func (s *CommonServices) GetAPIKeyService() interfaces.APIKeyService {
	return s.APIKeyService
}

// sendError is a helper function that combines logging and error response
// It logs the error with the given message and sends a JSON error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	// Get correlation ID from context
	correlationID := ""
	if id, exists := c.Get("correlationID"); exists {
		correlationID, _ = id.(string)
	}

	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("correlation_id", correlationID),
	)

	// Include correlation ID in error response for debugging
	response := struct {
		Error         string `json:"error"`
		CorrelationID string `json:"correlation_id,omitempty"`
	}{
		Error:         message,
		CorrelationID: correlationID,
	}

	c.JSON(statusCode, response)
}

// handleDBError is a helper function that handles database errors and returns appropriate HTTP status codes
func handleDBError(c *gin.Context, err error, notFoundMsg string) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		sendError(c, http.StatusNotFound, notFoundMsg, err)
	default:
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// handleVaultError translates ledger errors into HTTP status codes. State
// conflicts (shutdown, stale nonce) answer 409 and funds or limit shortfalls
// answer 422; anything unrecognized is a plain 500.
func handleVaultError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, vault.ErrUnauthorized):
		sendError(c, http.StatusForbidden, err.Error(), err)
	case errors.Is(err, vault.ErrVaultShutdown),
		errors.Is(err, vault.ErrNonceMismatch):
		sendError(c, http.StatusConflict, err.Error(), err)
	case errors.Is(err, vault.ErrInsufficientBalance),
		errors.Is(err, vault.ErrInsufficientAllowance),
		errors.Is(err, vault.ErrInsufficientLiquidity),
		errors.Is(err, vault.ErrDepositLimitExceeded):
		sendError(c, http.StatusUnprocessableEntity, err.Error(), err)
	case errors.Is(err, vault.ErrInvalidRecipient),
		errors.Is(err, vault.ErrZeroShares),
		errors.Is(err, vault.ErrPermitExpired),
		errors.Is(err, vault.ErrInvalidSignature),
		errors.Is(err, vault.ErrArithmeticOverflow),
		errors.Is(err, vault.ErrArithmeticUnderflow):
		sendError(c, http.StatusBadRequest, err.Error(), err)
	default:
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// sendSuccess is a helper function that sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// CreateMockCommonServices creates a CommonServices instance with mock interfaces for testing
// This is useful when you want to test handlers without actual database connections
func CreateMockCommonServices(
	db db.Querier,
	vaultService interfaces.VaultService,
	eventService interfaces.EventService,
	apiKeyService interfaces.APIKeyService,
) *CommonServices {
	return &CommonServices{
		db:            db,
		dbPool:        nil, // No pool for mocks
		vaultAddress:  "0x000000000000000000000000000000000000Fa11",
		logger:        zap.NewNop(), // No-op logger for tests
		VaultService:  vaultService,
		EventService:  eventService,
		APIKeyService: apiKeyService,
	}
}
