package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCorrelationIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name                 string
		requestCorrelationID string
		expectNewID          bool
	}{
		{
			name:                 "New ID generated when header not present",
			requestCorrelationID: "",
			expectNewID:          true,
		},
		{
			name:                 "Existing ID preserved when header present",
			requestCorrelationID: "test-correlation-id-123",
			expectNewID:          false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CorrelationIDMiddleware())

			router.GET("/test", func(c *gin.Context) {
				correlationID := GetCorrelationID(c)
				c.JSON(http.StatusOK, gin.H{
					"correlation_id": correlationID,
				})
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.requestCorrelationID != "" {
				req.Header.Set(CorrelationIDHeader, tt.requestCorrelationID)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			responseCorrelationID := w.Header().Get(CorrelationIDHeader)
			assert.NotEmpty(t, responseCorrelationID)

			if tt.expectNewID {
				// Generated IDs are UUIDs (36 chars with dashes)
				assert.Len(t, responseCorrelationID, 36)
			} else {
				assert.Equal(t, tt.requestCorrelationID, responseCorrelationID)
			}
		})
	}
}

func TestCorrelationIDFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CorrelationIDMiddleware())

	var seenID string
	router.GET("/test", func(c *gin.Context) {
		seenID = CorrelationIDFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"correlation_id": seenID})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	testID := "test-correlation-id-456"
	req.Header.Set(CorrelationIDHeader, testID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testID, seenID)
	assert.Equal(t, testID, w.Header().Get(CorrelationIDHeader))
}
