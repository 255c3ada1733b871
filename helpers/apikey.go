package helpers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// APIKeyLength is the length of the random portion of the API key in bytes
	APIKeyLength = 32
	// APIKeyPrefix is prepended to all ledger API keys
	APIKeyPrefix = "vlk"
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
)

// GenerateAPIKey creates a new API key with the format: vlk_<base64-encoded-random-bytes>
func GenerateAPIKey() (string, error) {
	randomBytes := make([]byte, APIKeyLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(randomBytes)
	return fmt.Sprintf("%s_%s", APIKeyPrefix, encoded), nil
}

// HashAPIKey creates a bcrypt hash of the API key for storage
func HashAPIKey(apiKey string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash API key: %w", err)
	}
	return string(hash), nil
}

// CompareAPIKeyHash checks if the provided API key matches the stored hash
func CompareAPIKeyHash(apiKey, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(apiKey))
	return err == nil
}

// ExtractKeyPrefix returns the prefix portion of an API key for identification
func ExtractKeyPrefix(apiKey string) string {
	parts := strings.SplitN(apiKey, "_", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[0]
}
