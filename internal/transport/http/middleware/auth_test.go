package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpinghand-api/internal/application/token"
	"github.com/helpinghand-api/internal/domain"
	jwtinfra "github.com/helpinghand-api/internal/infrastructure/jwt"
	"github.com/helpinghand-api/internal/pkg/cipher"
)

type stubUserStore struct {
	user *domain.User
	err  error
}

func (s *stubUserStore) Get(_ context.Context, _ string) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubUserStore) Update(_ context.Context, _ string, _ map[string]interface{}) error {
	return nil
}

func newTestIssuer(t *testing.T, store *stubUserStore) *token.Issuer {
	t.Helper()
	signer, err := jwtinfra.NewProvider("test-secret-for-middleware")
	require.NoError(t, err)
	c, err := cipher.New("test-secret-for-middleware")
	require.NoError(t, err)
	return token.NewIssuer(token.IssuerDeps{
		Signer:   signer,
		Cipher:   c,
		UserRepo: store,
		TTL:      time.Hour,
	})
}

func authedUser() *domain.User {
	return &domain.User{
		UserID: "u1",
		Role:   domain.RoleSeeker,
		Status: domain.StatusActive,
	}
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestAuth_MissingHeader(t *testing.T) {
	store := &stubUserStore{user: authedUser()}
	iss := newTestIssuer(t, store)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	Auth(iss, store)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_BadToken(t *testing.T) {
	store := &stubUserStore{user: authedUser()}
	iss := newTestIssuer(t, store)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rr := httptest.NewRecorder()
	Auth(iss, store)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_ValidToken_InjectsUserAndClaims(t *testing.T) {
	u := authedUser()
	store := &stubUserStore{user: u}
	iss := newTestIssuer(t, store)

	tok, err := iss.Issue(context.Background(), u, u.Role)
	require.NoError(t, err)

	var gotUser *domain.User
	var gotTok string
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserFromContext(r.Context())
		gotTok, _ = TokenFromContext(r.Context())
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "u1", claims.UserID)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	Auth(iss, store)(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, gotUser)
	assert.Equal(t, "u1", gotUser.UserID)
	assert.Equal(t, tok, gotTok)
}

func TestAuth_TokenReplacedByNewerLogin(t *testing.T) {
	u := authedUser()
	store := &stubUserStore{user: u}
	iss := newTestIssuer(t, store)

	tok, err := iss.Issue(context.Background(), u, u.Role)
	require.NoError(t, err)

	// A later login stored a different token; this one is retired.
	u.AccessToken = "some-other-token"

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	Auth(iss, store)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "LOGGED_IN_WITH_OTHER_DEVICE")
}

func TestAuth_BlockedAccountRejected(t *testing.T) {
	u := authedUser()
	store := &stubUserStore{user: u}
	iss := newTestIssuer(t, store)

	tok, err := iss.Issue(context.Background(), u, u.Role)
	require.NoError(t, err)
	u.Status = domain.StatusBlocked

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	Auth(iss, store)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "USER_BLOCKED")
}

func TestAuth_UnknownUser(t *testing.T) {
	activeStore := &stubUserStore{user: authedUser()}
	iss := newTestIssuer(t, activeStore)
	tok, err := iss.Issue(context.Background(), activeStore.user, domain.RoleSeeker)
	require.NoError(t, err)

	missing := &stubUserStore{err: domain.ErrNotFound}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	Auth(iss, missing)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
