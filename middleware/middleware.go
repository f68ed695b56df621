package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"verdura/globals"
	"verdura/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	Username string `json:"username"`
	AdminID  string `json:"adminId"`
	jwt.RegisteredClaims
}

// Auth verifies admin bearer tokens. The signing secret comes from config at
// startup.
type Auth struct {
	Secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{Secret: []byte(secret)}
}

// GenerateToken issues a signed, time-bound admin token.
func (a *Auth) GenerateToken(adminID, username string, ttl time.Duration) (string, error) {
	claims := &Claims{
		Username: username,
		AdminID:  adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.Secret)
}

// Authenticate guards admin-only routes. It rejects missing, malformed,
// invalid and expired tokens alike with 401.
func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := a.ValidateBearer(r.Header.Get("Authorization"))
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), globals.AdminIDKey, claims.AdminID)
		ctx = context.WithValue(ctx, globals.UsernameKey, claims.Username)
		next(w, r.WithContext(ctx), ps)
	}
}

// ValidateBearer parses an "Authorization: Bearer <token>" header value.
func (a *Auth) ValidateBearer(header string) (*Claims, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, fmt.Errorf("invalid token format")
	}
	return a.ValidateJWT(strings.TrimPrefix(header, "Bearer "))
}

func (a *Auth) ValidateJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return a.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("unauthorized: token invalid")
	}
	return claims, nil
}
