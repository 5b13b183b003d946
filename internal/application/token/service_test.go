package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/helpinghand-api/internal/domain"
	jwtinfra "github.com/helpinghand-api/internal/infrastructure/jwt"
	"github.com/helpinghand-api/internal/pkg/cipher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

func newIssuer(t *testing.T, us *mockUserStore, testMode bool) *Issuer {
	t.Helper()
	signer, err := jwtinfra.NewProvider("issuer-test-secret")
	require.NoError(t, err)
	c, err := cipher.New("issuer-test-secret")
	require.NoError(t, err)
	return NewIssuer(IssuerDeps{
		Signer:   signer,
		Cipher:   c,
		UserRepo: us,
		TTL:      30 * time.Minute,
		TestMode: testMode,
	})
}

func seeker() *domain.User {
	return &domain.User{UserID: "user-1", Role: domain.RoleSeeker, Status: domain.StatusActive}
}

func TestIssue_NewToken_PersistsAndValidates(t *testing.T) {
	us := &mockUserStore{}
	us.On("Update", mock.Anything, "user-1", mock.Anything).Return(nil)
	iss := newIssuer(t, us, false)

	u := seeker()
	tok, err := iss.Issue(context.Background(), u, domain.RoleSeeker)

	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.Equal(t, tok, u.AccessToken)
	assert.Greater(t, u.AccessTokenExpiration, time.Now().Unix())
	assert.True(t, iss.Validate(tok))

	claims, err := iss.Claims(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleSeeker, claims.Role)
}

func TestIssue_AdminReuse_Idempotent(t *testing.T) {
	us := &mockUserStore{}
	us.On("Update", mock.Anything, "admin-1", mock.Anything).Return(nil)
	iss := newIssuer(t, us, false)

	admin := &domain.User{UserID: "admin-1", Role: domain.RoleAdmin, Status: domain.StatusActive}
	first, err := iss.Issue(context.Background(), admin, domain.RoleAdmin)
	require.NoError(t, err)

	second, err := iss.Issue(context.Background(), admin, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	// only the first call persists
	us.AssertNumberOfCalls(t, "Update", 1)
}

func TestIssue_SeekerNeverReuses(t *testing.T) {
	us := &mockUserStore{}
	us.On("Update", mock.Anything, "user-1", mock.Anything).Return(nil)
	iss := newIssuer(t, us, false)

	u := seeker()
	first, err := iss.Issue(context.Background(), u, domain.RoleSeeker)
	require.NoError(t, err)

	second, err := iss.Issue(context.Background(), u, domain.RoleSeeker)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	us.AssertNumberOfCalls(t, "Update", 2)
}

func TestIssue_TestModeReusesForAnyRole(t *testing.T) {
	us := &mockUserStore{}
	us.On("Update", mock.Anything, "user-1", mock.Anything).Return(nil)
	iss := newIssuer(t, us, true)

	u := seeker()
	first, err := iss.Issue(context.Background(), u, domain.RoleSeeker)
	require.NoError(t, err)

	second, err := iss.Issue(context.Background(), u, domain.RoleSeeker)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestIssue_ExpiredStoredToken_NotReused(t *testing.T) {
	us := &mockUserStore{}
	us.On("Update", mock.Anything, "admin-1", mock.Anything).Return(nil)

	signer, err := jwtinfra.NewProvider("issuer-test-secret")
	require.NoError(t, err)
	c, err := cipher.New("issuer-test-secret")
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	expiredIss := NewIssuer(IssuerDeps{
		Signer: signer, Cipher: c, UserRepo: us,
		TTL: time.Minute,
		Now: func() time.Time { return past },
	})
	admin := &domain.User{UserID: "admin-1", Role: domain.RoleAdmin, Status: domain.StatusActive}
	stale, err := expiredIss.Issue(context.Background(), admin, domain.RoleAdmin)
	require.NoError(t, err)

	iss := NewIssuer(IssuerDeps{Signer: signer, Cipher: c, UserRepo: us, TTL: 30 * time.Minute})
	assert.False(t, iss.Validate(stale))

	fresh, err := iss.Issue(context.Background(), admin, domain.RoleAdmin)
	require.NoError(t, err)
	assert.NotEqual(t, stale, fresh)
	assert.True(t, iss.Validate(fresh))
}

func TestIssue_PersistFailure_SurfacesInternalError(t *testing.T) {
	us := &mockUserStore{}
	us.On("Update", mock.Anything, "user-1", mock.Anything).Return(errors.New("dynamo down"))
	iss := newIssuer(t, us, false)

	_, err := iss.Issue(context.Background(), seeker(), domain.RoleSeeker)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInternal)
}

func TestValidate_GarbageToken(t *testing.T) {
	iss := newIssuer(t, &mockUserStore{}, false)
	assert.False(t, iss.Validate(""))
	assert.False(t, iss.Validate("not-a-token"))
	assert.False(t, iss.Validate("deadbeefdeadbeefdeadbeefdeadbeefdeadbeef"))
}

func TestIsCurrentForUser(t *testing.T) {
	u := seeker()
	u.AccessToken = "stored-token"
	assert.True(t, IsCurrentForUser("stored-token", u))
	assert.False(t, IsCurrentForUser("another-token", u))

	u.AccessToken = ""
	assert.False(t, IsCurrentForUser("", u))
}
