package handlers

import (
	"database/sql"
	"time"

	"standards-backend/internal/domain"
	"standards-backend/internal/http/middleware"
	"standards-backend/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	Admins repositories.AdminRepo
	Secret []byte
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	admin, err := h.Admins.FindByLogin(c.Request.Context(), req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			Error(c, domain.AuthError{Detail: "wrong email/username or password"})
			return
		}
		Internal(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		Error(c, domain.AuthError{Detail: "wrong email/username or password"})
		return
	}

	token, err := mintToken(h.Secret, admin)
	if err != nil {
		Internal(c, err)
		return
	}
	setTokenCookie(c, token)
	OK(c, gin.H{"admin": admin, "token": token})
}

// mintToken signs a fresh token embedding the admin snapshot the
// authorization gate expects.
func mintToken(secret []byte, a domain.Admin) (string, error) {
	p := middleware.Principal{ID: a.ID, Role: a.Role.Name}
	if a.Dealership != nil {
		p.Dealership = a.Dealership.ID
	}
	claims := middleware.AdminClaims{
		Admin: p,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// setTokenCookie refreshes the httpOnly token cookie (24h max-age).
func setTokenCookie(c *gin.Context, token string) {
	c.SetCookie("token", token, int(tokenTTL.Seconds()), "/", "", false, true)
}
