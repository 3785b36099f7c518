package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(testSecret), func(c *gin.Context) {
		c.JSON(200, gin.H{"id": c.GetString("userId"), "role": c.GetString("userRole")})
	})
	r.GET("/admin", AuthMiddleware(testSecret), AdminOnly(), func(c *gin.Context) {
		c.Status(204)
	})
	return r
}

func tokenFor(t *testing.T, role models.UserRole, secret string) string {
	t.Helper()
	token, err := utils.GenerateToken(&models.User{ID: "u1", Email: "a@b.pt", Role: role}, secret)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{name: "missing token", status: 401},
		{name: "bearer header", header: "Bearer " + tokenFor(t, models.RoleFinance, testSecret), status: 200},
		{name: "query token", query: tokenFor(t, models.RoleFinance, testSecret), status: 200},
		{name: "wrong secret", header: "Bearer " + tokenFor(t, models.RoleFinance, "other"), status: 401},
		{name: "malformed header", header: "Token abc", status: 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/me"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	r := newRouter()

	for role, status := range map[models.UserRole]int{
		models.RoleAdmin:   204,
		models.RoleManager: 403,
		models.RoleDriver:  403,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, role, testSecret))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, string(role))
	}
}
