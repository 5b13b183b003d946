package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/helpinghand-api/internal/application/auth"
	"github.com/helpinghand-api/internal/config"
	"github.com/helpinghand-api/internal/domain"
	"github.com/helpinghand-api/internal/transport/http/middleware"
)

// --- mock ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Login(ctx context.Context, req *domain.LoginRequest) (*auth.Session, error) {
	args := m.Called(ctx, req)
	if s, _ := args.Get(0).(*auth.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) Signup(ctx context.Context, req *domain.SignupRequest) (*auth.Session, error) {
	args := m.Called(ctx, req)
	if s, _ := args.Get(0).(*auth.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) Logout(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockAuthSvc) ChangePassword(ctx context.Context, u *domain.User, req *domain.ChangePasswordRequest) error {
	return m.Called(ctx, u, req).Error(0)
}

func (m *mockAuthSvc) UpdateProfile(ctx context.Context, u *domain.User, req *domain.UpdateProfileRequest) error {
	return m.Called(ctx, u, req).Error(0)
}

func (m *mockAuthSvc) RequestEmailConfirmation(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockAuthSvc) ConfirmEmail(ctx context.Context, u *domain.User, code string) error {
	return m.Called(ctx, u, code).Error(0)
}

// --- helpers ---

var devFeatures = config.Features{ExposeErrorInfo: true}

func authedRequest(method, target string, body []byte, u *domain.User) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(r.Context(), middleware.UserKey, u)
	ctx = context.WithValue(ctx, middleware.TokenKey, "tok-1")
	return r.WithContext(ctx)
}

func seekerUser() *domain.User {
	return &domain.User{
		UserID: "u1",
		Email:  "maria@example.com",
		Role:   domain.RoleSeeker,
		Status: domain.StatusActive,
	}
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) MessageEnvelope {
	t.Helper()
	var env MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

// --- tests ---

func TestLogin_OK(t *testing.T) {
	svc := new(mockAuthSvc)
	u := seekerUser()
	svc.On("Login", mock.Anything, mock.AnythingOfType("*domain.LoginRequest")).
		Return(&auth.Session{User: u, Token: "tok-1"}, nil)

	h := NewSessionHandler(svc, devFeatures)
	body := []byte(`{"email":"maria@example.com","password":"hunter2-hunter2","role":"seeker"}`)
	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions/login", bytes.NewReader(body)))

	assert.Equal(t, http.StatusOK, rr.Code)
	var env AuthEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	assert.Equal(t, "tok-1", env.Bearer)
	require.NotNil(t, env.User)
	assert.Equal(t, "u1", env.User.UserID)
}

func TestLogin_UnknownUserAndWrongPasswordAnswerIdentically(t *testing.T) {
	byUser := new(mockAuthSvc)
	byUser.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrUserNotFound)
	byPass := new(mockAuthSvc)
	byPass.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrPasswordMismatch)

	body := `{"email":"maria@example.com","password":"hunter2-hunter2","role":"seeker"}`
	var envs []MessageEnvelope
	var codes []int
	for _, svc := range []*mockAuthSvc{byUser, byPass} {
		h := NewSessionHandler(svc, devFeatures)
		rr := httptest.NewRecorder()
		h.Login(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions/login", bytes.NewReader([]byte(body))))
		codes = append(codes, rr.Code)
		envs = append(envs, decodeEnvelope(t, rr))
	}

	assert.Equal(t, codes[0], codes[1])
	assert.Equal(t, envs[0].Error, envs[1].Error)
	assert.Equal(t, envs[0].ErrorCode, envs[1].ErrorCode)
	assert.Equal(t, domain.ErrInvalidCredentials.Message, envs[0].Error)
}

func TestLogin_BlockedPassesThrough(t *testing.T) {
	svc := new(mockAuthSvc)
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrUserBlocked)

	h := NewSessionHandler(svc, devFeatures)
	body := []byte(`{"email":"maria@example.com","password":"hunter2-hunter2","role":"seeker"}`)
	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions/login", bytes.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, domain.ErrUserBlocked.Message, decodeEnvelope(t, rr).Error)
}

func TestLogin_InvalidBody(t *testing.T) {
	h := NewSessionHandler(new(mockAuthSvc), devFeatures)
	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions/login", bytes.NewReader([]byte("{"))))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin_MissingPassword(t *testing.T) {
	h := NewSessionHandler(new(mockAuthSvc), devFeatures)
	body := []byte(`{"email":"maria@example.com","role":"seeker"}`)
	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions/login", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetCurrent_ReturnsContextUser(t *testing.T) {
	h := NewSessionHandler(new(mockAuthSvc), devFeatures)
	rr := httptest.NewRecorder()
	h.GetCurrent(rr, authedRequest(http.MethodGet, "/v1/sessions", nil, seekerUser()))

	assert.Equal(t, http.StatusOK, rr.Code)
	var env AuthEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	assert.Equal(t, "tok-1", env.Bearer)
	assert.Equal(t, "u1", env.User.UserID)
}

func TestGetCurrent_NoUserInContext(t *testing.T) {
	h := NewSessionHandler(new(mockAuthSvc), devFeatures)
	rr := httptest.NewRecorder()
	h.GetCurrent(rr, httptest.NewRequest(http.MethodGet, "/v1/sessions", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogout(t *testing.T) {
	svc := new(mockAuthSvc)
	u := seekerUser()
	svc.On("Logout", mock.Anything, u).Return(nil)

	h := NewSessionHandler(svc, devFeatures)
	rr := httptest.NewRecorder()
	h.Logout(rr, authedRequest(http.MethodPost, "/v1/sessions/logout", nil, u))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "logged out", decodeEnvelope(t, rr).Message)
}
