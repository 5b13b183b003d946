package domain

import "time"

// OTPRecord is a one-time passcode bound to a phone identity.
// At most one active record exists per phone: requesting a new code first
// purges all prior records for that phone. After a successful code
// verification the Token field is populated; signup validates against Token,
// not Code. ExpiresAt doubles as the DynamoDB TTL attribute.
type OTPRecord struct {
	OTPID       string    `json:"id" dynamodbav:"otp_id"`
	CountryCode string    `json:"country_code" dynamodbav:"country_code"`
	PhoneNumber string    `json:"phone_number" dynamodbav:"phone_number"`
	Phone       string    `json:"-" dynamodbav:"phone"` // "cc-number" composite, hash key of the phone GSI
	Code        string    `json:"-" dynamodbav:"code"`
	Token       string    `json:"-" dynamodbav:"token"`
	ExpiresAt   int64     `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
}

// Expired reports whether the record's code (and proof token) have lapsed
// at the given instant. Expiry is only ever checked at read time.
func (o *OTPRecord) Expired(now time.Time) bool {
	return o.ExpiresAt <= now.Unix()
}

type RequestPhoneCodeRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
}

type VerifyPhoneCodeRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
}
