package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yourorg/moving-portal/internal/config"
	"github.com/yourorg/moving-portal/internal/middleware"
	"github.com/yourorg/moving-portal/internal/model"
	"github.com/yourorg/moving-portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key"

func testAuthService() *service.AuthService {
	return service.NewAuthService(nil, nil, nil, &config.AuthConfig{
		JWTSecret:            testSecret,
		JWTIssuer:            "moving-portal-test",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 24 * time.Hour,
	}, zap.NewNop())
}

func accessToken(t *testing.T, role, clientID string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   "u1",
		"email": "user@example.com",
		"role":  role,
		"type":  "access",
		"iss":   "moving-portal-test",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	if clientID != "" {
		claims["client_id"] = clientID
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func buildRouter(mws ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append(mws, func(c *gin.Context) {
		identity, _ := middleware.Identity(c)
		c.JSON(http.StatusOK, gin.H{"client_id": identity.ClientID})
	})
	router.GET("/protected", handlers...)
	return router
}

func get(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router := buildRouter(middleware.AuthMiddleware(testAuthService(), zap.NewNop()))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + accessToken(t, model.RoleClient, "client-1"), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(router, tt.header)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireClient(t *testing.T) {
	authService := testAuthService()
	router := buildRouter(
		middleware.AuthMiddleware(authService, zap.NewNop()),
		middleware.RequireClient(),
	)

	w := get(router, "Bearer "+accessToken(t, model.RoleClient, "client-1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "client-1")

	// Admins have no client profile and are rejected here.
	w = get(router, "Bearer "+accessToken(t, model.RoleAdmin, ""))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole(t *testing.T) {
	authService := testAuthService()
	router := buildRouter(
		middleware.AuthMiddleware(authService, zap.NewNop()),
		middleware.RequireRole(model.RoleAdmin),
	)

	w := get(router, "Bearer "+accessToken(t, model.RoleAdmin, ""))
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(router, "Bearer "+accessToken(t, model.RoleClient, "client-1"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
