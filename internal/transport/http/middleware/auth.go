package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/helpinghand-api/internal/application/token"
	"github.com/helpinghand-api/internal/domain"
	jwtinfra "github.com/helpinghand-api/internal/infrastructure/jwt"
)

type contextKey string

const (
	ClaimsKey contextKey = "claims"
	UserKey   contextKey = "user"
	TokenKey  contextKey = "token"
)

type tokenVerifier interface {
	Claims(tok string) (*jwtinfra.Claims, error)
}

type userGetter interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// Auth returns middleware that verifies the Bearer token and loads the
// account it belongs to. Beyond cryptographic validity the token must equal
// the one stored on the account: a later login from another device replaces
// the stored token and retires this one.
func Auth(verifier tokenVerifier, users userGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAPIError(w, domain.ErrUnauthorizedAccess)
				return
			}
			tok := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := verifier.Claims(tok)
			if err != nil {
				writeAPIError(w, domain.ErrInvalidToken)
				return
			}
			u, err := users.Get(r.Context(), claims.UserID)
			if err != nil {
				writeAPIError(w, domain.ErrUserNotFound)
				return
			}
			if u.Status == domain.StatusBlocked {
				writeAPIError(w, domain.ErrUserBlocked)
				return
			}
			if !token.IsCurrentForUser(tok, u) {
				writeAPIError(w, domain.ErrLoggedInElsewhere)
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			ctx = context.WithValue(ctx, UserKey, u)
			ctx = context.WithValue(ctx, TokenKey, tok)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts the verified token claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return c, ok
}

// UserFromContext extracts the authenticated account from the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserKey).(*domain.User)
	return u, ok
}

// TokenFromContext extracts the raw bearer token from the request context.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(TokenKey).(string)
	return t, ok
}
