// Package token issues and validates session tokens: a signed, time-limited
// HS256 payload binding a user identity and role, wrapped in symmetric
// encryption before it leaves the process.
package token

import (
	"context"
	"fmt"
	"time"

	"github.com/helpinghand-api/internal/domain"
	jwtinfra "github.com/helpinghand-api/internal/infrastructure/jwt"
	"github.com/helpinghand-api/internal/pkg/cipher"
)

type userStore interface {
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// Issuer builds session tokens and persists them as the user's current
// access token.
type Issuer struct {
	signer   *jwtinfra.Provider
	cipher   *cipher.Cipher
	users    userStore
	ttl      time.Duration
	testMode bool
	now      func() time.Time
}

type IssuerDeps struct {
	Signer   *jwtinfra.Provider
	Cipher   *cipher.Cipher
	UserRepo userStore
	TTL      time.Duration
	// TestMode widens idempotent token reuse to every role, keeping
	// integration runs deterministic.
	TestMode bool
	// Now defaults to time.Now; injectable for tests.
	Now func() time.Time
}

func NewIssuer(deps IssuerDeps) *Issuer {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Issuer{
		signer:   deps.Signer,
		cipher:   deps.Cipher,
		users:    deps.UserRepo,
		ttl:      deps.TTL,
		testMode: deps.TestMode,
		now:      now,
	}
}

// Issue returns a session token for the user in the given role.
//
// When a stored token exists and the caller is trusted (admin role, or any
// role in test mode), a still-valid stored token is returned unchanged
// instead of minting a new one. Otherwise a fresh token is signed, encrypted,
// persisted onto the user record and returned. A persistence failure is an
// internal error: the caller must not report success, because the token the
// client would hold would not be the one on file.
func (i *Issuer) Issue(ctx context.Context, u *domain.User, role string) (string, error) {
	if u.AccessToken != "" && (i.testMode || role == domain.RoleAdmin) && i.Validate(u.AccessToken) {
		return u.AccessToken, nil
	}

	expiresAt := i.now().Add(i.ttl)
	signed, err := i.signer.Sign(u.UserID, role, expiresAt)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	tok, err := i.cipher.Encrypt(signed)
	if err != nil {
		return "", fmt.Errorf("encrypt session token: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}

	if err := i.users.Update(ctx, u.UserID, map[string]interface{}{
		"access_token":            tok,
		"access_token_expiration": expiresAt.Unix(),
	}); err != nil {
		return "", fmt.Errorf("persist session token: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	u.AccessToken = tok
	u.AccessTokenExpiration = expiresAt.Unix()
	return tok, nil
}

// Validate reports whether the token is well formed, correctly signed and
// unexpired. It never fails with an error: decryption failures, signature
// mismatches and lapsed expiry all simply yield false.
//
// Validity is independent of whether the token is the one currently stored
// for a user; see IsCurrentForUser for that predicate.
func (i *Issuer) Validate(token string) bool {
	_, err := i.Claims(token)
	return err == nil
}

// Claims decrypts and verifies the token, returning its payload.
func (i *Issuer) Claims(token string) (*jwtinfra.Claims, error) {
	signed, err := i.cipher.Decrypt(token)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", domain.ErrInvalidToken)
	}
	claims, err := i.signer.Verify(signed)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", domain.ErrInvalidToken)
	}
	return claims, nil
}

// IsCurrentForUser reports whether token is the one currently stored on the
// user record. A cryptographically valid token that has been superseded by a
// later login fails this check even though Validate still passes.
func IsCurrentForUser(token string, u *domain.User) bool {
	return u.AccessToken != "" && u.AccessToken == token
}
