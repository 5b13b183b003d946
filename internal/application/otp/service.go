// Package otp manages the one-time-passcode ledger bound to phone numbers:
// code issuance, single-active-code-per-phone, expiry checks, and the
// code-to-proof-token exchange redeemed at signup.
package otp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/helpinghand-api/internal/config"
	"github.com/helpinghand-api/internal/domain"
	"github.com/helpinghand-api/internal/pkg/id"
	"github.com/helpinghand-api/internal/pkg/random"
)

// deterministicCode matches any active record for a phone when the
// AllowDeterministicOTP feature is on. Integration-test aid only.
const deterministicCode = "101010"

type otpStore interface {
	Put(ctx context.Context, o *domain.OTPRecord) error
	GetByPhone(ctx context.Context, phone domain.Phone) (*domain.OTPRecord, error)
	GetByPhoneAndCode(ctx context.Context, phone domain.Phone, code string) (*domain.OTPRecord, error)
	GetByPhoneAndToken(ctx context.Context, phone domain.Phone, token string) (*domain.OTPRecord, error)
	SetToken(ctx context.Context, otpID, token string) error
	DeleteByPhone(ctx context.Context, phone domain.Phone) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

// CodeResult is what RequestCode hands back to the transport layer. Code is
// only echoed to clients in non-production environments; the handler decides.
type CodeResult struct {
	Code      string
	ExpiresAt int64
}

type Service interface {
	RequestCode(ctx context.Context, phone domain.Phone) (*CodeResult, error)
	VerifyCode(ctx context.Context, phone domain.Phone, code string) (string, error)
	ConsumeSignupToken(ctx context.Context, phone domain.Phone, token string) error
	PurgeForPhone(ctx context.Context, phone domain.Phone) error
}

type service struct {
	repo           otpStore
	smsSender      smsSender
	mailer         mailer
	ttl            time.Duration
	tokenLen       int
	developerEmail string
	features       config.Features
	now            func() time.Time
}

type ServiceDeps struct {
	OTPRepo        otpStore
	SMSSender      smsSender
	Mailer         mailer
	TTL            time.Duration
	TokenLength    int
	DeveloperEmail string
	Features       config.Features
	// Now defaults to time.Now; injectable for tests.
	Now func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:           deps.OTPRepo,
		smsSender:      deps.SMSSender,
		mailer:         deps.Mailer,
		ttl:            deps.TTL,
		tokenLen:       deps.TokenLength,
		developerEmail: deps.DeveloperEmail,
		features:       deps.Features,
		now:            now,
	}
}

// RequestCode issues a fresh 6-digit code for the phone. All prior records
// for the phone are purged first, so exactly one active record remains.
// The delete+insert pair is not atomic: concurrent requests for the same
// phone race and the last writer wins.
func (s *service) RequestCode(ctx context.Context, phone domain.Phone) (*CodeResult, error) {
	code, err := random.Code()
	if err != nil {
		return nil, fmt.Errorf("generate otp code: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	expiresAt := s.now().Add(s.ttl).Unix()

	if err := s.repo.DeleteByPhone(ctx, phone); err != nil {
		return nil, fmt.Errorf("purge prior otp records: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	rec := &domain.OTPRecord{
		OTPID:       id.New(),
		CountryCode: phone.CountryCode,
		PhoneNumber: phone.Number,
		Phone:       phone.Composite(),
		Code:        code,
		ExpiresAt:   expiresAt,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("store otp record: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}

	// Delivery failure never rolls back the record: the client can retry
	// the request and the out-of-band channel is best effort anyway.
	s.notify(ctx, phone, code)

	return &CodeResult{Code: code, ExpiresAt: expiresAt}, nil
}

// VerifyCode exchanges a correct, unexpired code for an opaque proof token
// written onto the record. Signup later redeems the token, not the code.
func (s *service) VerifyCode(ctx context.Context, phone domain.Phone, code string) (string, error) {
	var rec *domain.OTPRecord
	var err error
	if s.features.AllowDeterministicOTP && code == deterministicCode {
		// Matches whatever record is active for the phone, skipping the
		// code and expiry checks.
		rec, err = s.repo.GetByPhone(ctx, phone)
		if err != nil {
			return "", fmt.Errorf("otp lookup: %w", domain.ErrOTPNotFound)
		}
	} else {
		rec, err = s.repo.GetByPhoneAndCode(ctx, phone, code)
		if err != nil {
			return "", fmt.Errorf("otp lookup: %w", domain.ErrOTPNotFound)
		}
		if rec.Expired(s.now()) {
			return "", fmt.Errorf("otp verify: %w", domain.ErrOTPExpired)
		}
	}

	proof, err := random.Characters(s.tokenLen)
	if err != nil {
		return "", fmt.Errorf("generate proof token: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	if err := s.repo.SetToken(ctx, rec.OTPID, proof); err != nil {
		return "", fmt.Errorf("store proof token: %w", domain.ErrInternalServer.WithInfo(err.Error()))
	}
	return proof, nil
}

// ConsumeSignupToken confirms the phone was verified: a record for the phone
// must carry the exact proof token and must not be expired. Deletion of the
// consumed record is the signup flow's job, via PurgeForPhone.
func (s *service) ConsumeSignupToken(ctx context.Context, phone domain.Phone, token string) error {
	rec, err := s.repo.GetByPhoneAndToken(ctx, phone, token)
	if err != nil {
		return fmt.Errorf("proof token lookup: %w", domain.ErrOTPTokenInvalid)
	}
	if rec.Expired(s.now()) {
		return fmt.Errorf("proof token: %w", domain.ErrOTPExpired)
	}
	return nil
}

// PurgeForPhone deletes every OTP record for the phone.
func (s *service) PurgeForPhone(ctx context.Context, phone domain.Phone) error {
	return s.repo.DeleteByPhone(ctx, phone)
}

func (s *service) notify(ctx context.Context, phone domain.Phone, code string) {
	body := "Your verification code is " + code
	if s.smsSender != nil {
		if err := s.smsSender.SendSMS(ctx, phone.E164(), body); err != nil {
			slog.Warn("otp sms delivery failed", "phone", phone.Composite(), "err", err)
		}
	}
	// Substitute channel outside production: copy the code to the developer
	// mailbox so flows remain testable without an SMS provider.
	if s.developerEmail != "" && s.mailer != nil {
		msg := fmt.Sprintf("%s<br /><br />Sent SMS to %s", body, phone.E164())
		if err := s.mailer.SendEmail(s.developerEmail, "Verification code", msg); err != nil {
			slog.Warn("otp email copy failed", "err", err)
		}
	}
}
