package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort lexicographically by creation
// time and are safe as DynamoDB partition keys for users and OTP records.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
