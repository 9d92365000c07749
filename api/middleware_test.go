package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/zvrva/flightledger/internal/domain"
)

const testSecret = "test-secret"

func signIdentity(t *testing.T, subject, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func identityRouter() (*gin.Engine, *domain.Identity) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var seen domain.Identity
	router.GET("/whoami", Identity(testSecret), func(c *gin.Context) {
		seen = caller(c)
		c.Status(http.StatusOK)
	})
	return router, &seen
}

func TestIdentity_ValidToken(t *testing.T) {
	router, seen := identityRouter()

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signIdentity(t, "alice", testSecret))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Identity("alice"), *seen)
}

func TestIdentity_MissingToken(t *testing.T) {
	router, _ := identityRouter()

	req := httptest.NewRequest("GET", "/whoami", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdentity_WrongSecret(t *testing.T) {
	router, _ := identityRouter()

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signIdentity(t, "alice", "other-secret"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdentity_EmptySubject(t *testing.T) {
	router, _ := identityRouter()

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signIdentity(t, "", testSecret))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
