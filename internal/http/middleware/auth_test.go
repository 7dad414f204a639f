package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("unit-test-secret")

func authTestRouter(secret []byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(secret), func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		c.JSON(http.StatusOK, p)
	})
	return r
}

func signToken(t *testing.T, secret []byte, claims AdminClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims(ttl time.Duration) AdminClaims {
	return AdminClaims{
		Admin: Principal{ID: "64a1f0c2e8b4d6a3f1c0e9b7", Role: "admin"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func doAuthRequest(r *gin.Engine, header, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func wantAuthFailure(t *testing.T, w *httptest.ResponseRecorder, detail string) {
	t.Helper()
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 (body %s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), detail) {
		t.Fatalf("body %s does not carry detail %q", w.Body.String(), detail)
	}
}

func TestAuthMissingToken(t *testing.T) {
	r := authTestRouter(testSecret)
	wantAuthFailure(t, doAuthRequest(r, "", ""), "missing token")
}

func TestAuthBadSignature(t *testing.T) {
	r := authTestRouter(testSecret)
	token := signToken(t, []byte("other-secret"), validClaims(time.Hour))
	wantAuthFailure(t, doAuthRequest(r, "Bearer "+token, ""), "invalid token")
}

func TestAuthExpiredToken(t *testing.T) {
	r := authTestRouter(testSecret)
	token := signToken(t, testSecret, validClaims(-time.Second))
	wantAuthFailure(t, doAuthRequest(r, "Bearer "+token, ""), "token expired")
}

func TestAuthTokenWithoutExpiry(t *testing.T) {
	r := authTestRouter(testSecret)
	claims := AdminClaims{Admin: Principal{ID: "64a1f0c2e8b4d6a3f1c0e9b7", Role: "admin"}}
	token := signToken(t, testSecret, claims)
	wantAuthFailure(t, doAuthRequest(r, "Bearer "+token, ""), "invalid token payload")
}

func TestAuthTokenWithEmptyPrincipal(t *testing.T) {
	r := authTestRouter(testSecret)
	claims := validClaims(time.Hour)
	claims.Admin = Principal{}
	token := signToken(t, testSecret, claims)
	wantAuthFailure(t, doAuthRequest(r, "Bearer "+token, ""), "invalid token claims")
}

func TestAuthValidHeaderToken(t *testing.T) {
	r := authTestRouter(testSecret)
	token := signToken(t, testSecret, validClaims(time.Hour))

	w := doAuthRequest(r, "bearer "+token, "") // prefix is case-insensitive
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	var p Principal
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode principal: %v", err)
	}
	if p.ID != "64a1f0c2e8b4d6a3f1c0e9b7" || p.Role != "admin" {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestAuthCookieFallback(t *testing.T) {
	r := authTestRouter(testSecret)
	token := signToken(t, testSecret, validClaims(time.Hour))

	w := doAuthRequest(r, "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin-only", Auth(testSecret), RequireRoles("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	claims := validClaims(time.Hour)
	claims.Admin.Role = "concesionario"
	token := signToken(t, testSecret, claims)

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}
