package params

import "time"

// CreateAPIKeyParams represents the parameters for creating an API key
type CreateAPIKeyParams struct {
	Name        string
	AccessLevel string
	ExpiresAt   *time.Time
}
