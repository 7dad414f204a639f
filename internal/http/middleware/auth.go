package middleware

import (
	"errors"
	"net/http"
	"strings"

	"standards-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const principalKey = "principal"

// Principal is the embedded admin snapshot carried inside the token.
type Principal struct {
	ID         string `json:"id"`
	Role       string `json:"role"`
	Dealership string `json:"dealership,omitempty"`
}

// AdminClaims is the token payload: principal snapshot plus expiry.
type AdminClaims struct {
	Admin Principal `json:"admin"`
	jwt.RegisteredClaims
}

// Auth is the authorization gate. It walks one fixed ladder per request:
// extract (header, then cookie) → verify signature → require expiry →
// require principal shape → attach principal to the context. Each rung
// fails with its own 401 detail so clients can tell the cases apart.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortAuth(c, "missing token")
			return
		}

		claims := &AdminClaims{}
		_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortAuth(c, "token expired")
				return
			}
			abortAuth(c, "invalid token")
			return
		}

		if claims.ExpiresAt == nil {
			abortAuth(c, "invalid token payload")
			return
		}
		if claims.Admin.ID == "" || claims.Admin.Role == "" {
			abortAuth(c, "invalid token claims")
			return
		}

		c.Set(principalKey, claims.Admin)
		c.Next()
	}
}

// extractToken reads the bearer token from the Authorization header, falling
// back to the token cookie. A "bearer " prefix is stripped case-insensitively
// in both places.
func extractToken(c *gin.Context) string {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw == "" {
		if cookie, err := c.Cookie("token"); err == nil {
			raw = strings.TrimSpace(cookie)
		}
	}
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	return raw
}

func abortAuth(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"errors": []domain.ErrorEntry{{Code: 401, Msg: "Unauthorized", Detail: detail}},
	})
}

// GetPrincipal extracts the authenticated principal set by Auth.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// RequireRoles only admits principals whose role is in allowedRoles. It
// assumes Auth ran earlier on the chain.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			abortAuth(c, "missing token")
			return
		}
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(p.Role))]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"errors": []domain.ErrorEntry{{Code: 403, Msg: "Forbidden", Detail: "role not allowed"}},
			})
			return
		}
		c.Next()
	}
}
