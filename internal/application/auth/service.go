// Package auth implements credential verification, signup, session lifecycle
// and email confirmation on top of the token issuer and the OTP ledger.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/helpinghand-api/internal/config"
	"github.com/helpinghand-api/internal/domain"
	"github.com/helpinghand-api/internal/pkg/id"
	"github.com/helpinghand-api/internal/pkg/password"
	"github.com/helpinghand-api/internal/pkg/random"
)

const emailConfirmCodeLength = 32

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmailAndRole(ctx context.Context, email, role string) (*domain.User, error)
	GetByPhoneAndRole(ctx context.Context, phone domain.Phone, role string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type tokenIssuer interface {
	Issue(ctx context.Context, u *domain.User, role string) (string, error)
}

type otpLedger interface {
	ConsumeSignupToken(ctx context.Context, phone domain.Phone, token string) error
	PurgeForPhone(ctx context.Context, phone domain.Phone) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

// Session pairs the authenticated account with its encrypted bearer token.
type Session struct {
	User  *domain.User
	Token string
}

type Service interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*Session, error)
	Signup(ctx context.Context, req *domain.SignupRequest) (*Session, error)
	Logout(ctx context.Context, u *domain.User) error
	ChangePassword(ctx context.Context, u *domain.User, req *domain.ChangePasswordRequest) error
	UpdateProfile(ctx context.Context, u *domain.User, req *domain.UpdateProfileRequest) error
	RequestEmailConfirmation(ctx context.Context, u *domain.User) error
	ConfirmEmail(ctx context.Context, u *domain.User, code string) error
}

type service struct {
	users           userStore
	issuer          tokenIssuer
	otps            otpLedger
	mailer          mailer
	allowedAttempts int
	blockDuration   time.Duration
	emailCodeTTL    time.Duration
	features        config.Features
	now             func() time.Time
}

type ServiceDeps struct {
	UserRepo        userStore
	Issuer          tokenIssuer
	OTPService      otpLedger
	Mailer          mailer
	AllowedAttempts int
	BlockDuration   time.Duration
	EmailCodeTTL    time.Duration
	Features        config.Features
	// Now defaults to time.Now; injectable for tests.
	Now func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:           deps.UserRepo,
		issuer:          deps.Issuer,
		otps:            deps.OTPService,
		mailer:          deps.Mailer,
		allowedAttempts: deps.AllowedAttempts,
		blockDuration:   deps.BlockDuration,
		emailCodeTTL:    deps.EmailCodeTTL,
		features:        deps.Features,
		now:             now,
	}
}

// Login resolves the account by (email, role) or (phone, role), enforces the
// temporary-block window, verifies the password and issues a session token.
// A wrong password counts against the attempt budget; exhausting it blocks
// the account for the configured window.
func (s *service) Login(ctx context.Context, req *domain.LoginRequest) (*Session, error) {
	u, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	if u.Status == domain.StatusBlocked {
		if u.BlockExpires == nil || s.now().Before(*u.BlockExpires) {
			return nil, fmt.Errorf("login: %w", domain.ErrUserBlocked)
		}
		// Block window lapsed, lift it before checking credentials.
		if err := s.users.Update(ctx, u.UserID, map[string]interface{}{
			"status":         domain.StatusActive,
			"login_attempts": 0,
			"block_expires":  nil,
		}); err != nil {
			return nil, fmt.Errorf("unblock user: %w", domain.ErrInternalServer.WithInfo(err.Error()))
		}
		u.Status = domain.StatusActive
		u.LoginAttempts = 0
	}

	ok, err := password.Verify(req.Password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	if !ok {
		return nil, s.registerFailedAttempt(ctx, u)
	}

	if u.LoginAttempts > 0 {
		if err := s.users.Update(ctx, u.UserID, map[string]interface{}{"login_attempts": 0}); err != nil {
			slog.Warn("reset login attempts failed", "user_id", u.UserID, "err", err)
		}
		u.LoginAttempts = 0
	}

	token, err := s.issuer.Issue(ctx, u, u.Role)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token}, nil
}

// Signup creates an account after the phone was proven via the OTP exchange.
// Email and phone are each unique per role, so one person can hold both a
// seeker and a giver account on the same contact details.
func (s *service) Signup(ctx context.Context, req *domain.SignupRequest) (*Session, error) {
	if !domain.ValidSignupRole(req.Role) {
		return nil, fmt.Errorf("signup role %q: %w", req.Role, domain.ErrUnauthorizedAccess)
	}
	phone, err := domain.ParsePhone(req.PhoneNumber)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmailAndRole(ctx, req.Email, req.Role); err == nil {
		return nil, fmt.Errorf("signup: %w", domain.ErrEmailExists)
	}
	if _, err := s.users.GetByPhoneAndRole(ctx, phone, req.Role); err == nil {
		return nil, fmt.Errorf("signup: %w", domain.ErrPhoneExists)
	}

	if !s.features.SkipSignupOTPCheck {
		if req.OTPToken == nil || *req.OTPToken == "" {
			return nil, fmt.Errorf("signup: missing otp token: %w", domain.ErrOTPTokenInvalid)
		}
		if err := s.otps.ConsumeSignupToken(ctx, phone, *req.OTPToken); err != nil {
			return nil, err
		}
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}

	now := s.now().UTC()
	u := &domain.User{
		UserID:              id.New(),
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Email:               req.Email,
		PasswordHash:        hash,
		CountryCode:         phone.CountryCode,
		PhoneNumber:         phone.Number,
		Phone:               phone.Composite(),
		Role:                req.Role,
		Status:              domain.StatusActive,
		EnableNotifications: true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, fmt.Errorf("store user: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}

	// The proof token is spent; leftover ledger entries for the phone are
	// garbage now and would otherwise linger until the TTL sweep.
	if err := s.otps.PurgeForPhone(ctx, phone); err != nil {
		slog.Warn("otp cleanup after signup failed", "phone", phone.Composite(), "err", err)
	}

	token, err := s.issuer.Issue(ctx, u, u.Role)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token}, nil
}

// Logout clears the stored token so the session can no longer pass the
// stored-token equality check.
func (s *service) Logout(ctx context.Context, u *domain.User) error {
	err := s.users.Update(ctx, u.UserID, map[string]interface{}{
		"access_token":            "",
		"access_token_expiration": 0,
	})
	if err != nil {
		return fmt.Errorf("logout: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	return nil
}

func (s *service) ChangePassword(ctx context.Context, u *domain.User, req *domain.ChangePasswordRequest) error {
	ok, err := password.Verify(req.CurrentPassword, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	if !ok {
		return fmt.Errorf("change password: %w", domain.ErrPasswordMismatch)
	}
	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	if err := s.users.Update(ctx, u.UserID, map[string]interface{}{"password_hash": hash}); err != nil {
		return fmt.Errorf("store password: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	return nil
}

// UpdateProfile applies the provided profile fields. Absent fields are left
// untouched; contact details and role are immutable here.
func (s *service) UpdateProfile(ctx context.Context, u *domain.User, req *domain.UpdateProfileRequest) error {
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
		u.LastName = *req.LastName
	}
	if req.EnableNotifications != nil {
		updates["enable_notifications"] = *req.EnableNotifications
		u.EnableNotifications = *req.EnableNotifications
	}
	if len(updates) == 0 {
		return nil
	}
	if err := s.users.Update(ctx, u.UserID, updates); err != nil {
		return fmt.Errorf("store profile: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	return nil
}

// RequestEmailConfirmation writes a fresh confirmation code onto the account
// and mails it. Requesting again replaces any previous code.
func (s *service) RequestEmailConfirmation(ctx context.Context, u *domain.User) error {
	code, err := random.Characters(emailConfirmCodeLength)
	if err != nil {
		return fmt.Errorf("generate confirmation code: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	expiresAt := s.now().Add(s.emailCodeTTL).Unix()
	err = s.users.Update(ctx, u.UserID, map[string]interface{}{
		"email_confirm_code":       code,
		"email_confirm_expires_at": expiresAt,
	})
	if err != nil {
		return fmt.Errorf("store confirmation code: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	u.EmailConfirmCode = code
	u.EmailConfirmExpiresAt = expiresAt

	body := fmt.Sprintf("Hi %s,<br /><br />Your email confirmation code is %s", u.FirstName, code)
	if err := s.mailer.SendEmail(u.Email, "Confirm your email", body); err != nil {
		return fmt.Errorf("send confirmation email: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	return nil
}

// ConfirmEmail marks the account's email verified when the presented code
// matches the stored one and is still within its validity window.
func (s *service) ConfirmEmail(ctx context.Context, u *domain.User, code string) error {
	if u.EmailConfirmCode == "" || u.EmailConfirmCode != code {
		return fmt.Errorf("confirm email: %w", domain.ErrEmailCodeInvalid)
	}
	if u.EmailConfirmExpiresAt != 0 && s.now().Unix() > u.EmailConfirmExpiresAt {
		return fmt.Errorf("confirm email: %w", domain.ErrEmailCodeInvalid)
	}
	err := s.users.Update(ctx, u.UserID, map[string]interface{}{
		"is_email_verified":        true,
		"email_confirm_code":       "",
		"email_confirm_expires_at": 0,
	})
	if err != nil {
		return fmt.Errorf("store email verification: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	u.IsEmailVerified = true
	return nil
}

func (s *service) resolve(ctx context.Context, req *domain.LoginRequest) (*domain.User, error) {
	switch {
	case req.Email != nil && *req.Email != "":
		u, err := s.users.GetByEmailAndRole(ctx, *req.Email, req.Role)
		if err != nil {
			return nil, fmt.Errorf("login: %w", domain.ErrUserNotFound)
		}
		return u, nil
	case req.PhoneNumber != nil && *req.PhoneNumber != "":
		phone, err := domain.ParsePhone(*req.PhoneNumber)
		if err != nil {
			return nil, err
		}
		u, err := s.users.GetByPhoneAndRole(ctx, phone, req.Role)
		if err != nil {
			return nil, fmt.Errorf("login: %w", domain.ErrUserNotFound)
		}
		return u, nil
	default:
		return nil, fmt.Errorf("login: email or phone required: %w", domain.ErrBadRequest)
	}
}

func (s *service) registerFailedAttempt(ctx context.Context, u *domain.User) error {
	attempts := u.LoginAttempts + 1
	updates := map[string]interface{}{"login_attempts": attempts}
	blocked := attempts >= s.allowedAttempts
	if blocked {
		until := s.now().Add(s.blockDuration).UTC().Format(time.RFC3339)
		updates["status"] = domain.StatusBlocked
		updates["block_expires"] = until
	}
	if err := s.users.Update(ctx, u.UserID, updates); err != nil {
		return fmt.Errorf("record failed attempt: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	if blocked {
		return fmt.Errorf("login: %w", domain.ErrUserBlocked)
	}
	return fmt.Errorf("login: %w", domain.ErrPasswordMismatch)
}
