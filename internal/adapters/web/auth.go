package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mercadinho-pos/internal/app"

	"github.com/golang-jwt/jwt/v5"
)

type authClaimsKey struct{}

// AuthClaims holds the authenticated account's identity extracted from the
// bearer token.
type AuthClaims struct {
	UserID int
}

// authFromContext returns the auth claims stored in ctx, or nil.
func authFromContext(ctx context.Context) *AuthClaims {
	v, _ := ctx.Value(authClaimsKey{}).(*AuthClaims)
	return v
}

// jwtClaims is the JWT payload struct used for signing and parsing.
type jwtClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// tokenTTL is how long an issued token stays valid.
const tokenTTL = 24 * time.Hour

// signToken issues an HS256 token for the account.
func (h *Handler) signToken(userID int) (string, error) {
	claims := &jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

// RequireAuth is chi middleware that validates the Authorization bearer
// token and injects AuthClaims into the request context. Returns 401 if the
// token is absent or invalid.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(h.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			writeError(w, r, "invalid or expired token", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsKey{}, &AuthClaims{UserID: claims.UserID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// register handles POST /auth/cadastro.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req app.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// login handles POST /auth/login.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"senha"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	token, err := h.signToken(user.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":   token,
		"usuario": user,
	})
}

// verify handles GET /auth/verificar: a 200 with the profile confirms the
// token is still valid.
func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	user, err := h.svc.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"usuario": user})
}
