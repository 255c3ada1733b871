package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cyphera/vault-ledger/helpers"
	"github.com/cyphera/vault-ledger/internal/db"
	"github.com/cyphera/vault-ledger/types/api/params"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// APIKeyService handles business logic for API key operations
type APIKeyService struct {
	db db.Querier
}

// NewAPIKeyService creates a new instance of APIKeyService
func NewAPIKeyService(database db.Querier) *APIKeyService {
	return &APIKeyService{
		db: database,
	}
}

// CreateAPIKey creates a new API key with proper key generation and hashing.
// The full key is returned once and never stored.
func (s *APIKeyService) CreateAPIKey(ctx context.Context, p params.CreateAPIKeyParams) (db.ApiKey, string, error) {
	fullKey, err := helpers.GenerateAPIKey()
	if err != nil {
		return db.ApiKey{}, "", err
	}

	hashedKey, err := helpers.HashAPIKey(fullKey)
	if err != nil {
		return db.ApiKey{}, "", err
	}

	var expiresAt pgtype.Timestamptz
	if p.ExpiresAt != nil {
		expiresAt.Time = *p.ExpiresAt
		expiresAt.Valid = true
	}

	apiKey, err := s.db.CreateAPIKey(ctx, db.CreateAPIKeyParams{
		Name:        p.Name,
		KeyHash:     hashedKey,
		KeyPrefix:   pgtype.Text{String: keyPrefixOf(fullKey), Valid: true},
		AccessLevel: db.ApiKeyLevel(p.AccessLevel),
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return db.ApiKey{}, "", err
	}

	return apiKey, fullKey, nil
}

// GetAPIKey retrieves an API key by ID
func (s *APIKeyService) GetAPIKey(ctx context.Context, id uuid.UUID) (db.ApiKey, error) {
	return s.db.GetAPIKey(ctx, id)
}

// ListAPIKeys retrieves all keys that have not been revoked
func (s *APIKeyService) ListAPIKeys(ctx context.Context) ([]db.ApiKey, error) {
	return s.db.GetAllActiveAPIKeys(ctx)
}

// RevokeAPIKey permanently disables an API key
func (s *APIKeyService) RevokeAPIKey(ctx context.Context, id uuid.UUID) error {
	return s.db.RevokeAPIKey(ctx, id)
}

// keyPrefixOf returns the identifying prefix stored alongside the hash:
// the scheme prefix plus the first 8 characters of the encoded secret.
func keyPrefixOf(fullKey string) string {
	parts := strings.SplitN(fullKey, "_", 2)
	if len(parts) != 2 || len(parts[1]) < 8 {
		return fullKey
	}
	return fmt.Sprintf("%s_%s", parts[0], parts[1][:8])
}
