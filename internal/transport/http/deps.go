package http

import (
	"context"

	"github.com/helpinghand-api/internal/application/token"
	"github.com/helpinghand-api/internal/domain"
	"github.com/helpinghand-api/internal/infrastructure/smtp"
	"github.com/helpinghand-api/internal/infrastructure/sns"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmailAndRole(ctx context.Context, email, role string) (*domain.User, error)
	GetByPhoneAndRole(ctx context.Context, phone domain.Phone, role string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// OTPRepository is the minimal interface the router requires from the
// one-time-passcode store.
type OTPRepository interface {
	Put(ctx context.Context, o *domain.OTPRecord) error
	GetByPhone(ctx context.Context, phone domain.Phone) (*domain.OTPRecord, error)
	GetByPhoneAndCode(ctx context.Context, phone domain.Phone, code string) (*domain.OTPRecord, error)
	GetByPhoneAndToken(ctx context.Context, phone domain.Phone, token string) (*domain.OTPRecord, error)
	SetToken(ctx context.Context, otpID, token string) error
	DeleteByPhone(ctx context.Context, phone domain.Phone) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo  UserRepository
	OTPRepo   OTPRepository
	Mailer    smtp.Mailer
	SMSSender sns.SMSSender
	Issuer    *token.Issuer
}
