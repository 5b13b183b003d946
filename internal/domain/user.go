package domain

import "time"

// Roles form a closed set. Seekers request help, givers provide it,
// admin accounts are provisioned out of band.
const (
	RoleAdmin  = "admin"
	RoleSeeker = "seeker"
	RoleGiver  = "giver"
)

// User account statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusBlocked  = "blocked"
)

// ValidSignupRole reports whether role may be chosen at signup.
func ValidSignupRole(role string) bool {
	return role == RoleSeeker || role == RoleGiver
}

type User struct {
	UserID                string     `json:"id" dynamodbav:"user_id"`
	FirstName             string     `json:"first_name" dynamodbav:"first_name"`
	LastName              string     `json:"last_name" dynamodbav:"last_name"`
	Email                 string     `json:"email" dynamodbav:"email"`
	IsEmailVerified       bool       `json:"is_email_verified" dynamodbav:"is_email_verified"`
	PasswordHash          string     `json:"-" dynamodbav:"password_hash"`
	CountryCode           string     `json:"country_code" dynamodbav:"country_code"`
	PhoneNumber           string     `json:"phone_number" dynamodbav:"phone_number"`
	Phone                 string     `json:"-" dynamodbav:"phone"` // "cc-number" composite, hash key of the phone-role GSI
	Role                  string     `json:"role" dynamodbav:"role"`
	Status                string     `json:"status" dynamodbav:"status"`
	AccessToken           string     `json:"-" dynamodbav:"access_token"`
	AccessTokenExpiration int64      `json:"token_expiration" dynamodbav:"access_token_expiration"` // Unix seconds
	LoginAttempts         int        `json:"-" dynamodbav:"login_attempts"`
	BlockExpires          *time.Time `json:"-" dynamodbav:"block_expires"`
	EmailConfirmCode      string     `json:"-" dynamodbav:"email_confirm_code"`
	EmailConfirmExpiresAt int64      `json:"-" dynamodbav:"email_confirm_expires_at"` // Unix seconds
	EnableNotifications   bool       `json:"enable_notifications" dynamodbav:"enable_notifications"`
	CreatedAt             time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt             time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type SignupRequest struct {
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    string  `json:"last_name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8,max=72"`
	PhoneNumber string  `json:"phone_number" validate:"required"` // "cc-number" form, e.g. "+1-5551234567"
	Role        string  `json:"role" validate:"required"`
	OTPToken    *string `json:"otp_token"`
}

type LoginRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number"`
	Password    string  `json:"password" validate:"required"`
	Role        string  `json:"role" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName           *string `json:"first_name"`
	LastName            *string `json:"last_name"`
	EnableNotifications *bool   `json:"enable_notifications"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}
