package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"github.com/cyphera/vault-ledger/logger"
)

// SecretsManagerClient wraps the AWS Secrets Manager client.
type SecretsManagerClient struct {
	svc *secretsmanager.Client
	cfg aws.Config
}

// NewSecretsManagerClient creates and initializes a new Secrets Manager client.
// It uses the default AWS configuration chain (environment variables, shared config, IAM role).
func NewSecretsManagerClient(ctx context.Context) (*SecretsManagerClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return &SecretsManagerClient{
		svc: secretsmanager.NewFromConfig(cfg),
		cfg: cfg,
	}, nil
}

// GetSecretString fetches a secret string using an ARN held in secretArnEnvVar.
// When the ARN variable is unset or the fetch fails, the value of fallbackEnvVar
// is used directly instead. Secrets stored as a single-key JSON object are
// unwrapped to their inner value; anything else comes back verbatim.
func (c *SecretsManagerClient) GetSecretString(ctx context.Context, secretArnEnvVar string, fallbackEnvVar string) (string, error) {
	secretArn := os.Getenv(secretArnEnvVar)

	if secretArn != "" {
		result, err := c.svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(secretArn),
		})
		if err == nil && result.SecretString != nil && *result.SecretString != "" {
			fetched := *result.SecretString

			var secretJSON map[string]string
			jsonErr := json.Unmarshal([]byte(fetched), &secretJSON)
			if jsonErr == nil && len(secretJSON) == 1 {
				for key, value := range secretJSON {
					logger.Log.Info("Fetched secret from Secrets Manager (extracted from single-key JSON)",
						zap.String("secretArn", secretArn),
						zap.String("jsonKey", key),
					)
					return value, nil
				}
			}
			if jsonErr == nil {
				// Multi-key JSON secrets belong to GetSecretJSON; hand back the raw string.
				logger.Log.Warn("Secret was JSON but not single-key, returning raw string",
					zap.String("secretArn", secretArn),
					zap.Int("keyCount", len(secretJSON)),
				)
			}
			return fetched, nil
		}

		logger.Log.Warn("Failed to retrieve secret from Secrets Manager, falling back to env var",
			zap.String("secretArnEnvVar", secretArnEnvVar),
			zap.String("fallbackEnvVar", fallbackEnvVar),
			zap.Error(err),
		)
	}

	if value := os.Getenv(fallbackEnvVar); value != "" {
		logger.Log.Debug("Using secret value from direct environment variable", zap.String("envVar", fallbackEnvVar))
		return value, nil
	}

	return "", fmt.Errorf("secret not found using ARN env var '%s' or direct env var '%s'", secretArnEnvVar, fallbackEnvVar)
}

// GetSecretJSON fetches a secret and unmarshals it into target. The stored
// secret must be a JSON document; the RDS-managed credential secret is the
// main user of this shape. There is no plain-text fallback, since an env var
// cannot carry the structured document.
func (c *SecretsManagerClient) GetSecretJSON(ctx context.Context, secretArnEnvVar string, target interface{}) error {
	secretArn := os.Getenv(secretArnEnvVar)
	if secretArn == "" {
		return fmt.Errorf("secret ARN env var '%s' is not set", secretArnEnvVar)
	}

	result, err := c.svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretArn),
	})
	if err != nil {
		return fmt.Errorf("retrieving secret '%s': %w", secretArn, err)
	}
	if result.SecretString == nil {
		return fmt.Errorf("secret '%s' has no string payload", secretArn)
	}

	if err := json.Unmarshal([]byte(*result.SecretString), target); err != nil {
		return fmt.Errorf("parsing secret '%s' as JSON: %w", secretArn, err)
	}

	logger.Log.Info("Fetched and parsed JSON secret from Secrets Manager", zap.String("secretArn", secretArn))
	return nil
}
