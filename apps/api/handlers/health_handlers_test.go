package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthHandler() *HealthHandler {
	return NewHealthHandler(CreateMockCommonServices(nil, nil, nil, nil))
}

func TestNewHealthHandler(t *testing.T) {
	handler := newHealthHandler()
	require.NotNil(t, handler)
	assert.IsType(t, &HealthHandler{}, handler)
}

func TestHealthHandler_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := newHealthHandler()

	tests := []struct {
		name           string
		method         string
		expectedStatus int
		expectedBody   HealthResponse
	}{
		{
			name:           "GET request returns ok",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedBody:   HealthResponse{Status: "ok"},
		},
		{
			name:           "POST request also works",
			method:         http.MethodPost,
			expectedStatus: http.StatusOK,
			expectedBody:   HealthResponse{Status: "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(tt.method, "/health", nil)

			handler.Health(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response HealthResponse
			err := json.Unmarshal(w.Body.Bytes(), &response)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedBody, response)
		})
	}
}

func TestHealthHandler_ResponseFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := newHealthHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	handler.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_ReadyWithoutPool(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Mocked services carry no pool, so readiness must report unavailable.
	handler := newHealthHandler()

	router := gin.New()
	router.GET("/ready", handler.Ready)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Database pool not configured", errorMessage(t, w))
}

func TestHealthHandler_Integration(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := newHealthHandler()
	router.GET("/health", handler.Health)

	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var response HealthResponse
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, "ok", response.Status)
}
