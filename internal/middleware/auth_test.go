package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/verifact-app/backend/internal/config"
	"github.com/verifact-app/backend/internal/pkg/token"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpireHours: 1}
}

func protectedRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(cfg))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(200, gin.H{"userID": c.GetString("userID"), "role": c.GetString("role")})
	})
	return r
}

func TestAuthNoHeader(t *testing.T) {
	r := protectedRouter(testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, 401, w.Code)
	var body map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	require.Equal(t, "Authorization header required", body["error"])
}

func TestAuthInvalidToken(t *testing.T) {
	r := protectedRouter(testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	require.Equal(t, 401, w.Code)
}

func TestAuthValidTokenSetsIdentity(t *testing.T) {
	cfg := testConfig()
	r := protectedRouter(cfg)

	jwt, err := token.GenerateToken("64f000000000000000000001", "a@b.c", RoleUser, cfg.JWTSecret, cfg.JWTExpireHours)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+jwt)
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "64f000000000000000000001", body["userID"])
	require.Equal(t, RoleUser, body["role"])
}

func TestAuthWrongSecretRejected(t *testing.T) {
	cfg := testConfig()
	r := protectedRouter(cfg)

	jwt, err := token.GenerateToken("64f000000000000000000001", "a@b.c", RoleUser, "other-secret", cfg.JWTExpireHours)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+jwt)
	r.ServeHTTP(w, req)

	require.Equal(t, 401, w.Code)
}

func TestAuthRawTokenWithoutBearerPrefix(t *testing.T) {
	cfg := testConfig()
	r := protectedRouter(cfg)

	jwt, err := token.GenerateToken("64f000000000000000000001", "a@b.c", RoleUser, cfg.JWTSecret, cfg.JWTExpireHours)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", jwt)
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
}

func TestOptionalAuthPassesWithoutToken(t *testing.T) {
	cfg := testConfig()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(OptionalAuth(cfg))
	r.GET("/open", func(c *gin.Context) {
		c.JSON(200, gin.H{"userID": c.GetString("userID")})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/open", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "", body["userID"])
}

func TestAdminOnlyRejectsUserRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("role", RoleUser) })
	r.Use(AdminOnly())
	r.GET("/admin", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, 403, w.Code)
}

func TestAdminOnlyAllowsAdminRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("role", RoleAdmin) })
	r.Use(AdminOnly())
	r.GET("/admin", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
}
