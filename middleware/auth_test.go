package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharunramasamy/quickpickapp/models"
	"github.com/tharunramasamy/quickpickapp/services"
)

func newTestRouter(tokens *services.TokenService, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/")
	group.Use(AuthMiddleware(tokens))
	handlers := []gin.HandlerFunc{}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		claims, err := GetClaims(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	group.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret", time.Hour)
	r := newTestRouter(tokens)

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Missing token")
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret", time.Hour)
	r := newTestRouter(tokens)

	w := doRequest(r, "Bearer not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	expired := services.NewTokenService("test-secret", -time.Minute)
	token, err := expired.Generate(uuid.New(), models.RoleCustomer, 1)
	require.NoError(t, err)

	r := newTestRouter(services.NewTokenService("test-secret", time.Hour))
	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expired")
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret", time.Hour)
	token, err := tokens.Generate(uuid.New(), models.RoleCustomer, 1)
	require.NoError(t, err)

	r := newTestRouter(tokens)
	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleDeniesWrongRole(t *testing.T) {
	tokens := services.NewTokenService("test-secret", time.Hour)
	token, err := tokens.Generate(uuid.New(), models.RoleCustomer, 1)
	require.NoError(t, err)

	r := newTestRouter(tokens, models.RoleInventoryStaff)
	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access denied")
}

func TestRequireRoleAllowsAnyListedRole(t *testing.T) {
	tokens := services.NewTokenService("test-secret", time.Hour)
	token, err := tokens.Generate(uuid.New(), models.RoleDeliveryPartner, 1)
	require.NoError(t, err)

	r := newTestRouter(tokens, models.RoleDeliveryPartner, models.RoleInventoryStaff)
	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}
