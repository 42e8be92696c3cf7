package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-at-least-16"

func init() { gin.SetMode(gin.TestMode) }

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func validClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id":  7,
		"username": "jan",
		"role":     role,
		"exp":      time.Now().Add(time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
}

func protectedRouter(roles ...string) *gin.Engine {
	r := gin.New()
	r.GET("/p", JWTAuth(testSecret), RequireRole(roles...), func(c *gin.Context) {
		claims := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID, "role": claims.Role})
	})
	return r
}

func doGet(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	w := doGet(protectedRouter("viewer"), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestJWTAuth_Malformed(t *testing.T) {
	w := doGet(protectedRouter("viewer"), "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	tok := signToken(t, jwt.SigningMethodHS256, []byte("another-secret-entirely"), validClaims("admin"))
	w := doGet(protectedRouter("admin"), "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_Expired(t *testing.T) {
	claims := validClaims("admin")
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	tok := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims)
	w := doGet(protectedRouter("admin"), "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_NoneAlgorithmRejected(t *testing.T) {
	tok := signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims("admin"))
	w := doGet(protectedRouter("admin"), "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	tok := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("viewer"))
	w := doGet(protectedRouter("editor", "admin"), "Bearer "+tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient permissions")
}

func TestRequireRole_Allowed(t *testing.T) {
	tok := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("editor"))
	w := doGet(protectedRouter("editor", "admin"), "Bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"role":"editor"}`, w.Body.String())
}
