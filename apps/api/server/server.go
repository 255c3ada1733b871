package server

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cyphera/vault-ledger/apps/api/handlers"
	awsclient "github.com/cyphera/vault-ledger/client/aws"
	"github.com/cyphera/vault-ledger/client/erc20"
	"github.com/cyphera/vault-ledger/helpers"
	"github.com/cyphera/vault-ledger/internal/db"
	"github.com/cyphera/vault-ledger/logger"
	"github.com/cyphera/vault-ledger/middleware"
	"github.com/cyphera/vault-ledger/services"
	"github.com/cyphera/vault-ledger/vault"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Handler Definitions
var (
	vaultHandler  *handlers.VaultHandler
	eventHandler  *handlers.EventHandler
	apiKeyHandler *handlers.APIKeyHandler
	healthHandler *handlers.HealthHandler

	// Database
	dbQueries *db.Queries

	// Services
	commonServices *handlers.CommonServices
)

func InitializeHandlers() {
	var dsn string // Database Source Name (connection string)

	// Load environment variables from .env file for local development
	// Note: .env might still set STAGE=local, which is now the preferred way
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err) // Use basic log before logger init
	}

	// --- Determine and Validate Stage ---
	stage := os.Getenv("STAGE")
	if stage == "" {
		stage = helpers.StageLocal // Default to local if not set
		log.Printf("Warning: STAGE environment variable not set, defaulting to '%s'", stage)
	}
	if !helpers.IsValidStage(stage) {
		log.Fatalf("Invalid STAGE environment variable: '%s'. Must be one of: %s, %s, %s",
			stage, helpers.StageProd, helpers.StageDev, helpers.StageLocal)
	}

	// --- Initialize Logger (AFTER stage validation) ---
	logger.InitLogger(stage)
	logger.Info("Initializing handlers for stage", zap.String("stage", stage))

	ctx := context.Background()

	// --- Initialize AWS Secrets Manager Client ---
	secretsClient, err := awsclient.NewSecretsManagerClient(ctx)
	if err != nil {
		logger.Fatal("Failed to initialize AWS Secrets Manager client", zap.Error(err))
	}

	// --- Database Connection Setup ---
	// Use stage variable to determine connection method
	if stage == helpers.StageProd || stage == helpers.StageDev {
		// Deployed environment logic (prod or dev)
		logger.Info("Running in deployed stage, fetching DB credentials from Secrets Manager", zap.String("stage", stage))

		// Reads DB_HOST, DB_NAME, RDS_SECRET_ARN from env (set by SAM template)
		dbEndpoint := os.Getenv("DB_HOST")
		dbName := os.Getenv("DB_NAME")
		dbSSLMode := os.Getenv("DB_SSLMODE")

		if dbEndpoint == "" || dbName == "" {
			logger.Fatal("Missing required DB environment variables for deployed stage (DB_HOST, DB_NAME)")
		}
		if dbSSLMode == "" {
			dbSSLMode = "require"
			logger.Warn("DB_SSLMODE not set, defaulting to 'require'")
		}

		type RdsSecret struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		var secretData RdsSecret

		err = secretsClient.GetSecretJSON(ctx, "RDS_SECRET_ARN", &secretData)
		if err != nil {
			logger.Fatal("Failed to retrieve or parse RDS secret", zap.Error(err), zap.String("secretArnEnvVar", "RDS_SECRET_ARN"))
		}

		if secretData.Username == "" || secretData.Password == "" {
			logger.Fatal("Username or password not found in RDS secret data", zap.String("secretArnEnvVar", "RDS_SECRET_ARN"))
		}

		dsn = fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
			url.QueryEscape(secretData.Username),
			url.QueryEscape(secretData.Password),
			dbEndpoint, dbName, dbSSLMode)
		logger.Info("Constructed DSN from Secrets Manager credentials")

	} else {
		// --- Local Development Environment (stage == helpers.StageLocal) ---
		logger.Info("Running in local stage, using DATABASE_URL from env/secrets")
		// Use GetSecretString for DATABASE_URL as it might be set directly or via an ARN
		dsn, err = secretsClient.GetSecretString(ctx, "DATABASE_URL_ARN", "DATABASE_URL")
		if err != nil {
			logger.Fatal("Failed to get DATABASE_URL", zap.Error(err))
		}
		if dsn == "" {
			logger.Fatal("DATABASE_URL is required for local development")
		}
	}

	// --- Database Pool Initialization ---
	// Parse the DSN configuration first
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Fatal("Unable to parse database DSN", zap.Error(err))
	}

	// Configure the connection pool
	poolConfig.MaxConns = 20
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Minute * 30 // Shorter lifetime to prevent cached plan issues
	poolConfig.MaxConnIdleTime = time.Minute * 15 // Shorter idle time

	// Create the connection pool using the config
	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal("Unable to create connection pool with config", zap.Error(err))
	}

	// Create queries instance with the connection pool
	dbQueries = db.New(dbpool)

	// --- Vault Identity Configuration ---
	vaultAddress := os.Getenv("VAULT_ADDRESS")
	if vaultAddress == "" {
		logger.Fatal("VAULT_ADDRESS environment variable is required")
	}
	if !helpers.IsAddressValid(vaultAddress) {
		logger.Fatal("VAULT_ADDRESS is not a valid address", zap.String("vault_address", vaultAddress))
	}
	vaultAddr := common.HexToAddress(vaultAddress)

	ownerAddress := os.Getenv("VAULT_OWNER_ADDRESS")
	if ownerAddress == "" {
		logger.Fatal("VAULT_OWNER_ADDRESS environment variable is required")
	}
	if !helpers.IsAddressValid(ownerAddress) {
		logger.Fatal("VAULT_OWNER_ADDRESS is not a valid address", zap.String("owner_address", ownerAddress))
	}

	tokenAddress := os.Getenv("TOKEN_ADDRESS")
	if tokenAddress == "" {
		logger.Fatal("TOKEN_ADDRESS environment variable is required")
	}
	if !helpers.IsAddressValid(tokenAddress) {
		logger.Fatal("TOKEN_ADDRESS is not a valid address", zap.String("token_address", tokenAddress))
	}

	// --- Token Operator Key ---
	// The key that signs token transactions. Its derived address is the
	// vault's custody account, so it must control VAULT_ADDRESS.
	operatorKeyHex, err := secretsClient.GetSecretString(ctx, "TOKEN_OPERATOR_KEY_ARN", "TOKEN_OPERATOR_KEY")
	if err != nil || operatorKeyHex == "" {
		logger.Fatal("Failed to get token operator key", zap.Error(err))
	}
	if !strings.HasPrefix(operatorKeyHex, "0x") {
		operatorKeyHex = "0x" + operatorKeyHex
	}
	if !helpers.IsPrivateKeyValid(operatorKeyHex) {
		logger.Fatal("TOKEN_OPERATOR_KEY is not a valid private key")
	}
	operatorKey, err := crypto.HexToECDSA(operatorKeyHex[2:])
	if err != nil {
		logger.Fatal("Unable to parse token operator key", zap.Error(err))
	}

	// --- Ethereum RPC Backend ---
	rpcURL := os.Getenv("TOKEN_RPC_URL")
	if rpcURL == "" {
		if stage != helpers.StageLocal {
			logger.Fatal("TOKEN_RPC_URL environment variable is required for deployed stages")
		}
		rpcURL = "http://localhost:8545"
		logger.Warn("TOKEN_RPC_URL not set, defaulting to local node", zap.String("rpc_url", rpcURL))
	}
	rpcClient, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		logger.Fatal("Unable to connect to Ethereum RPC node", zap.Error(err), zap.String("rpc_url", rpcURL))
	}

	// --- Chain ID ---
	var chainID *big.Int
	if raw := os.Getenv("CHAIN_ID"); raw != "" {
		parsed, ok := new(big.Int).SetString(raw, 10)
		if !ok || parsed.Sign() <= 0 {
			logger.Fatal("CHAIN_ID must be a positive integer", zap.String("chain_id", raw))
		}
		chainID = parsed
	} else {
		chainID, err = rpcClient.ChainID(ctx)
		if err != nil {
			logger.Fatal("Unable to read chain id from RPC node", zap.Error(err))
		}
		logger.Info("Using chain id reported by RPC node", zap.String("chain_id", chainID.String()))
	}

	// --- Token Client ---
	tokenClient, err := erc20.New(erc20.Config{
		TokenAddress: common.HexToAddress(tokenAddress),
		OperatorKey:  operatorKey,
		ChainID:      chainID,
		Backend:      rpcClient,
	})
	if err != nil {
		logger.Fatal("Unable to create token client", zap.Error(err))
	}
	if tokenClient.Operator() != vaultAddr {
		logger.Fatal("TOKEN_OPERATOR_KEY does not control VAULT_ADDRESS",
			zap.String("operator", tokenClient.Operator().Hex()),
			zap.String("vault_address", vaultAddr.Hex()),
		)
	}

	// --- Deposit Limit ---
	var depositLimit *uint256.Int
	if raw := os.Getenv("VAULT_DEPOSIT_LIMIT"); raw != "" {
		depositLimit, err = helpers.ParseAmount(raw)
		if err != nil {
			logger.Fatal("VAULT_DEPOSIT_LIMIT is not a valid amount", zap.Error(err), zap.String("deposit_limit", raw))
		}
	}

	// --- Vault Ledger ---
	// Ledger events are archived through the store so /vault/events can
	// serve history across restarts.
	archiver := services.NewEventArchiver(dbQueries, vaultAddr)

	ledger, err := vault.New(ctx, vault.Config{
		Name:         os.Getenv("VAULT_NAME"),
		Symbol:       os.Getenv("VAULT_SYMBOL"),
		Address:      vaultAddr,
		Owner:        common.HexToAddress(ownerAddress),
		ChainID:      chainID,
		Token:        tokenClient,
		DepositLimit: depositLimit,
		Recorder:     archiver,
	})
	if err != nil {
		logger.Fatal("Unable to initialize vault ledger", zap.Error(err))
	}
	logger.Info("Vault ledger initialized",
		zap.String("vault_address", vaultAddr.Hex()),
		zap.String("token_address", tokenAddress),
		zap.String("chain_id", chainID.String()),
	)

	// --- Services ---
	vaultService := services.NewVaultService(ledger)
	eventService := services.NewEventService(dbQueries)
	apiKeyService := services.NewAPIKeyService(dbQueries)

	commonServices = handlers.NewCommonServices(handlers.CommonServicesConfig{
		DB:            dbQueries,
		DBPool:        dbpool,
		VaultAddress:  vaultAddr.Hex(),
		VaultService:  vaultService,
		EventService:  eventService,
		APIKeyService: apiKeyService,
	})

	// API Handler initialization
	vaultHandler = handlers.NewVaultHandler(commonServices, logger.Log)
	eventHandler = handlers.NewEventHandler(commonServices, logger.Log)
	apiKeyHandler = handlers.NewAPIKeyHandler(commonServices, logger.Log)
	healthHandler = handlers.NewHealthHandler(commonServices)
}

func InitializeRoutes(router *gin.Engine) {
	// Logger is now initialized in InitializeHandlers

	// Configure and apply CORS middleware
	router.Use(configureCORS())

	// Add correlation ID middleware for request tracing
	router.Use(middleware.CorrelationIDMiddleware())

	// Apply rate limiting middleware globally
	// This provides a default rate limit for all endpoints
	router.Use(middleware.DefaultRateLimiter.Middleware())

	// Add enhanced logging in development mode
	isDevelopment := os.Getenv("GIN_MODE") != "release"
	router.Use(middleware.EnhancedLoggingMiddleware(isDevelopment))

	// Add basic request logging for production
	if !isDevelopment {
		router.Use(middleware.RequestLoggingMiddleware())
	}

	// Health for raw lambda url check
	router.GET("/:stage/health", healthHandler.Health)
	router.GET("/:stage/ready", healthHandler.Ready)

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Protected routes (API key required)
		protected := v1.Group("/")
		protected.Use(middleware.APIKeyAuthMiddleware(commonServices.GetDB()))
		{
			// Admin-only routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdminKey())
			{
				// Governance endpoints get the stricter rate limit
				admin.POST("/deposit-limit", middleware.StrictRateLimiter.Middleware(), vaultHandler.SetDepositLimit)
				admin.POST("/emergency-shutdown", middleware.StrictRateLimiter.Middleware(), vaultHandler.SetEmergencyShutdown)

				// API Key management
				apiKeys := admin.Group("/api-keys")
				{
					apiKeys.GET("", apiKeyHandler.ListAPIKeys)
					apiKeys.POST("", apiKeyHandler.CreateAPIKey)
					apiKeys.GET("/:api_key_id", apiKeyHandler.GetAPIKeyByID)
					apiKeys.DELETE("/:api_key_id", apiKeyHandler.RevokeAPIKey)
				}
			}

			// Vault ledger
			vaultRoutes := protected.Group("/vault")
			{
				// Reads
				vaultRoutes.GET("", vaultHandler.GetVault)
				vaultRoutes.GET("/price-per-share", vaultHandler.GetPricePerShare)
				vaultRoutes.GET("/balances/:address", vaultHandler.GetBalance)
				vaultRoutes.GET("/allowances/:owner/:spender", vaultHandler.GetAllowance)
				vaultRoutes.GET("/nonces/:address", vaultHandler.GetNonce)
				vaultRoutes.GET("/permit-digest", vaultHandler.GetPermitDigest)

				// Event history
				vaultRoutes.GET("/events", eventHandler.ListVaultEvents)

				// State-changing operations get the stricter rate limit
				vaultRoutes.POST("/deposit", middleware.StrictRateLimiter.Middleware(), vaultHandler.Deposit)
				vaultRoutes.POST("/withdraw", middleware.StrictRateLimiter.Middleware(), vaultHandler.Withdraw)
				vaultRoutes.POST("/transfer", middleware.StrictRateLimiter.Middleware(), vaultHandler.Transfer)
				vaultRoutes.POST("/transfer-from", middleware.StrictRateLimiter.Middleware(), vaultHandler.TransferFrom)
				vaultRoutes.POST("/approve", middleware.StrictRateLimiter.Middleware(), vaultHandler.Approve)
				vaultRoutes.POST("/allowance/increase", middleware.StrictRateLimiter.Middleware(), vaultHandler.IncreaseAllowance)
				vaultRoutes.POST("/allowance/decrease", middleware.StrictRateLimiter.Middleware(), vaultHandler.DecreaseAllowance)
				vaultRoutes.POST("/permit", middleware.StrictRateLimiter.Middleware(), vaultHandler.Permit)
			}
		}
	}
}

// configureCORS returns a configured CORS middleware
func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	// Get allowed origins from environment variable
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		// Default to localhost if not set
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		// Split and trim the origins
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		corsConfig.AllowOrigins = origins
	}

	// Get allowed methods from environment variable
	methodsEnv := os.Getenv("CORS_ALLOWED_METHODS")
	if methodsEnv == "" {
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	} else {
		methods := strings.Split(methodsEnv, ",")
		for i, method := range methods {
			methods[i] = strings.TrimSpace(method)
		}
		corsConfig.AllowMethods = methods
	}

	// Get allowed headers from environment variable
	headersEnv := os.Getenv("CORS_ALLOWED_HEADERS")
	if headersEnv == "" {
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-API-Key", "X-Correlation-ID"}
	} else {
		headers := strings.Split(headersEnv, ",")
		for i, header := range headers {
			headers[i] = strings.TrimSpace(header)
		}
		corsConfig.AllowHeaders = headers
	}

	// Get exposed headers from environment variable
	exposedHeadersEnv := os.Getenv("CORS_EXPOSED_HEADERS")
	if exposedHeadersEnv != "" {
		exposedHeaders := strings.Split(exposedHeadersEnv, ",")
		for i, header := range exposedHeaders {
			exposedHeaders[i] = strings.TrimSpace(header)
		}
		corsConfig.ExposeHeaders = exposedHeaders
	} else {
		// Default exposed headers including rate limit headers
		corsConfig.ExposeHeaders = []string{
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
			"Retry-After",
			"X-Correlation-ID",
		}
	}

	// Set credentials allowed
	corsConfig.AllowCredentials = os.Getenv("CORS_ALLOW_CREDENTIALS") == "true"

	return cors.New(corsConfig)
}
