package domain

import (
	"fmt"
	"strings"
)

// Phone is a phone identity split into its country code and local number.
type Phone struct {
	CountryCode string `json:"country_code"`
	Number      string `json:"phone_number"`
}

// Composite returns the "cc-number" form used as a DynamoDB GSI hash key.
func (p Phone) Composite() string {
	return p.CountryCode + "-" + p.Number
}

// E164 returns the dialable form passed to the SMS provider.
func (p Phone) E164() string {
	return p.CountryCode + p.Number
}

// ParsePhone splits a "cc-number" string (e.g. "+1-5551234567") into a Phone.
func ParsePhone(s string) (Phone, error) {
	cc, number, ok := strings.Cut(s, "-")
	if !ok || cc == "" || number == "" {
		return Phone{}, fmt.Errorf("phone number must be in cc-number form: %w", ErrBadRequest)
	}
	return Phone{CountryCode: cc, Number: number}, nil
}
