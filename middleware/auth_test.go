package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sportsstore/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func adminRouter(trustGatewayHeaders bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", middleware.AdminAuth(testSecret, trustGatewayHeaders), func(c *gin.Context) {
		userID, _ := middleware.GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user": userID, "role": c.GetString(middleware.RoleContextKey)})
	})
	return r
}

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAdminAuth(t *testing.T) {
	valid := jwt.MapClaims{"sub": "u-1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}
	customer := jwt.MapClaims{"sub": "u-2", "role": "customer", "exp": time.Now().Add(time.Hour).Unix()}
	expired := jwt.MapClaims{"sub": "u-1", "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}

	tests := []struct {
		name    string
		trust   bool
		headers map[string]string
		status  int
	}{
		{name: "no credentials", status: http.StatusUnauthorized},
		{name: "gateway admin header", trust: true, headers: map[string]string{"X-User-Role": "admin", "X-User-ID": "g-1"}, status: http.StatusOK},
		{name: "gateway customer header", trust: true, headers: map[string]string{"X-User-Role": "customer"}, status: http.StatusForbidden},
		{name: "untrusted admin header", headers: map[string]string{"X-User-Role": "admin", "X-User-ID": "g-1"}, status: http.StatusUnauthorized},
		{name: "untrusted header with admin token", headers: map[string]string{"X-User-Role": "customer", "Authorization": "Bearer " + signedToken(t, testSecret, valid)}, status: http.StatusOK},
		{name: "admin token", headers: map[string]string{"Authorization": "Bearer " + signedToken(t, testSecret, valid)}, status: http.StatusOK},
		{name: "customer token", headers: map[string]string{"Authorization": "Bearer " + signedToken(t, testSecret, customer)}, status: http.StatusForbidden},
		{name: "wrong secret", headers: map[string]string{"Authorization": "Bearer " + signedToken(t, "other", valid)}, status: http.StatusUnauthorized},
		{name: "expired token", headers: map[string]string{"Authorization": "Bearer " + signedToken(t, testSecret, expired)}, status: http.StatusUnauthorized},
		{name: "not a bearer scheme", headers: map[string]string{"Authorization": "Basic abc"}, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			adminRouter(tt.trust).ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAdminAuth_SetsUserFromToken(t *testing.T) {
	token := signedToken(t, testSecret, jwt.MapClaims{"sub": "u-1", "role": "admin"})
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	adminRouter(false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"u-1","role":"admin"}`, w.Body.String())
}

func TestAdminAuth_TokenCookie(t *testing.T) {
	token := signedToken(t, testSecret, jwt.MapClaims{"role": "admin"})
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()

	adminRouter(false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
