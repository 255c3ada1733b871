package requests

import "time"

// CreateAPIKeyRequest represents the request body for creating an API key
type CreateAPIKeyRequest struct {
	Name        string     `json:"name" binding:"required"`
	AccessLevel string     `json:"access_level" binding:"required,oneof=read admin"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}
