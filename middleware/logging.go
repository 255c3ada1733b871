package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/cyphera/vault-ledger/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bodyLogWriter is a wrapper around gin.ResponseWriter that captures the response body
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// EnhancedLoggingMiddleware provides detailed request/response logging in development mode
func EnhancedLoggingMiddleware(isDevelopment bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isDevelopment {
			c.Next()
			return
		}

		startTime := time.Now()
		correlationID := GetCorrelationID(c)

		if logger.Log == nil {
			c.Next()
			return
		}
		log := logger.Log.With(zap.String("correlation_id", correlationID))

		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		// Sensitive headers are redacted, everything else logged as-is
		headers := make(map[string]string)
		for key, values := range c.Request.Header {
			if key == "Authorization" || key == "X-Api-Key" || key == "Cookie" {
				headers[key] = "[REDACTED]"
			} else {
				headers[key] = values[0]
			}
		}

		var requestJSON interface{}
		if c.GetHeader("Content-Type") == "application/json" && len(requestBody) > 0 {
			json.Unmarshal(requestBody, &requestJSON)
		}

		log.Info("Detailed request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Any("headers", headers),
			zap.Any("body", requestJSON),
			zap.Int("body_size", len(requestBody)),
		)

		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		duration := time.Since(startTime)

		var responseJSON interface{}
		responseBody := blw.body.Bytes()
		contentType := c.Writer.Header().Get("Content-Type")
		if strings.HasPrefix(contentType, "application/json") && len(responseBody) > 0 {
			if err := json.Unmarshal(responseBody, &responseJSON); err != nil {
				log.Debug("Failed to parse response JSON", zap.Error(err))
				responseJSON = string(responseBody)
			}
		}

		responseHeaders := make(map[string]string)
		for key, values := range c.Writer.Header() {
			responseHeaders[key] = values[0]
		}

		log.Info("Detailed response",
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
			zap.Any("headers", responseHeaders),
			zap.Any("body", responseJSON),
			zap.Int("body_size", len(responseBody)),
			zap.Int("errors_count", len(c.Errors)),
		)

		if len(c.Errors) > 0 {
			for _, err := range c.Errors {
				log.Error("Request error",
					zap.Error(err.Err),
					zap.Uint64("type", uint64(err.Type)),
					zap.Any("meta", err.Meta),
				)
			}
		}
	}
}

// RequestLoggingMiddleware provides basic request logging for production
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		if logger.Log == nil {
			return
		}

		logger.NewStructuredLogger(logger.ComponentMiddleware).
			WithCorrelationID(GetCorrelationID(c)).
			WithFields(map[string]interface{}{
				"client_ip": c.ClientIP(),
				"body_size": c.Writer.Size(),
			}).
			LogHTTPRequest(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(startTime))
	}
}
