package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SravanamCharan20/Bites/internal/models"
)

// TokenValidity is how long an issued token remains usable.
const TokenValidity = 7 * 24 * time.Hour

// Claims defines the JWT claims structure. The coarse location mirrors the
// signin contract: either state/city or latitude/longitude is embedded,
// never both.
type Claims struct {
	UserID    string   `json:"id"`
	State     string   `json:"state,omitempty"`
	City      string   `json:"city,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	jwt.RegisteredClaims
}

type contextKey string

// UserClaimsKey is the context key for user claims.
const UserClaimsKey = contextKey("userClaims")

// Manager signs and validates bearer tokens. The secret is injected at
// construction instead of read from ambient process state.
type Manager struct {
	secret []byte
}

// NewManager creates a token Manager using the given signing secret.
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// GenerateToken creates a new JWT for a given user, embedding the user's
// stored coarse location. City/state wins when both parts are present;
// otherwise the latitude/longitude pair is used.
func (m *Manager) GenerateToken(user models.User) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenValidity)),
		},
	}

	if loc := user.Location; loc != nil {
		if loc.State != "" && loc.City != "" {
			claims.State = loc.State
			claims.City = loc.City
		} else {
			claims.Latitude = loc.Latitude
			claims.Longitude = loc.Longitude
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates a JWT string.
func (m *Manager) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Middleware protects routes behind a bearer token. A missing token yields
// 401; a token that fails validation (bad signature, expired) yields 403.
func (m *Manager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := BearerToken(r)
			if tokenStr == "" {
				http.Error(w, "Access token required", http.StatusUnauthorized)
				return
			}

			claims, err := m.ValidateToken(tokenStr)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from the Authorization header, falling back
// to a "token" query parameter for websocket upgrades where browsers cannot
// set headers.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, "Bearer ")
		if len(parts) == 2 {
			return strings.TrimSpace(parts[1])
		}
	}
	return r.URL.Query().Get("token")
}

// ClaimsFromContext retrieves verified claims placed by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}
