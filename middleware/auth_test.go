package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cyphera/vault-ledger/helpers"
	"github.com/cyphera/vault-ledger/internal/db"
	"github.com/cyphera/vault-ledger/logger"
	"github.com/cyphera/vault-ledger/mocks"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test")
}

func storedKey(t *testing.T, plaintext string, level db.ApiKeyLevel) db.ApiKey {
	t.Helper()
	hash, err := helpers.HashAPIKey(plaintext)
	require.NoError(t, err)
	return db.ApiKey{
		ID:          uuid.New(),
		Name:        "test key",
		KeyHash:     hash,
		AccessLevel: level,
	}
}

func authRouter(queries db.Querier, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := []gin.HandlerFunc{APIKeyAuthMiddleware(queries)}
	handlers = append(handlers, extra...)
	router.GET("/protected", append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"key_id": GetAPIKeyID(c)})
	})...)
	return router
}

func TestAPIKeyAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("rejects request without key", func(t *testing.T) {
		queries := mocks.NewMockQuerierForTest(t)
		router := authRouter(queries)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/protected", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "No API key provided")
	})

	t.Run("rejects unknown key", func(t *testing.T) {
		queries := mocks.NewMockQuerierForTest(t)
		other := storedKey(t, "vlk_someoneelse", db.ApiKeyLevelRead)
		queries.EXPECT().GetAllActiveAPIKeys(gomock.Any()).Return([]db.ApiKey{other}, nil)

		router := authRouter(queries)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set(APIKeyHeader, "vlk_notstored")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid API key")
	})

	t.Run("accepts stored key", func(t *testing.T) {
		queries := mocks.NewMockQuerierForTest(t)
		key := storedKey(t, "vlk_goodkey", db.ApiKeyLevelRead)
		queries.EXPECT().GetAllActiveAPIKeys(gomock.Any()).Return([]db.ApiKey{key}, nil)
		queries.EXPECT().UpdateAPIKeyLastUsed(gomock.Any(), key.ID).Return(nil).AnyTimes()

		router := authRouter(queries)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set(APIKeyHeader, "vlk_goodkey")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), key.ID.String())
	})

	t.Run("rejects expired key", func(t *testing.T) {
		queries := mocks.NewMockQuerierForTest(t)
		key := storedKey(t, "vlk_expiredkey", db.ApiKeyLevelRead)
		key.ExpiresAt = pgtype.Timestamptz{Time: time.Now().Add(-time.Hour), Valid: true}
		queries.EXPECT().GetAllActiveAPIKeys(gomock.Any()).Return([]db.ApiKey{key}, nil)

		router := authRouter(queries)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set(APIKeyHeader, "vlk_expiredkey")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "API key has expired")
	})

	t.Run("reports lookup failures as service errors", func(t *testing.T) {
		queries := mocks.NewMockQuerierForTest(t)
		queries.EXPECT().GetAllActiveAPIKeys(gomock.Any()).Return(nil, assert.AnError)

		router := authRouter(queries)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set(APIKeyHeader, "vlk_whatever")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "authentication service error")
	})
}

func TestRequireAdminKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("read-level key is refused", func(t *testing.T) {
		queries := mocks.NewMockQuerierForTest(t)
		key := storedKey(t, "vlk_readkey", db.ApiKeyLevelRead)
		queries.EXPECT().GetAllActiveAPIKeys(gomock.Any()).Return([]db.ApiKey{key}, nil)
		queries.EXPECT().UpdateAPIKeyLastUsed(gomock.Any(), key.ID).Return(nil).AnyTimes()

		router := authRouter(queries, RequireAdminKey())

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set(APIKeyHeader, "vlk_readkey")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Admin API key required")
	})

	t.Run("admin key passes", func(t *testing.T) {
		queries := mocks.NewMockQuerierForTest(t)
		key := storedKey(t, "vlk_adminkey", db.ApiKeyLevelAdmin)
		queries.EXPECT().GetAllActiveAPIKeys(gomock.Any()).Return([]db.ApiKey{key}, nil)
		queries.EXPECT().UpdateAPIKeyLastUsed(gomock.Any(), key.ID).Return(nil).AnyTimes()

		router := authRouter(queries, RequireAdminKey())

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set(APIKeyHeader, "vlk_adminkey")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
