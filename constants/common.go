package constants

// Common string constants used throughout the codebase
const (
	// Service identity
	ServiceName = "vault-ledger"

	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment = "prod"

	// User roles
	AdminRole = "admin"
)
