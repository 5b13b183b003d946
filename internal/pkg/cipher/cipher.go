// Package cipher wraps opaque token strings in symmetric AES-256-GCM
// encryption before they leave the process. The key is derived from the
// process-wide secret and fixed for the process lifetime; rotating the
// secret invalidates every previously issued token.
package cipher

import (
	"crypto/aes"
	gocipher "crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrDecrypt is returned for malformed or tampered ciphertext. Callers must
// treat it as "token invalid", never as an internal fault.
var ErrDecrypt = errors.New("cannot decrypt token")

type Cipher struct {
	aead gocipher.AEAD
}

// New derives a 256-bit key from secret and returns a ready Cipher.
func New(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, errors.New("cipher secret must not be empty")
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := gocipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext and returns hex(nonce || ciphertext).
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(sealed), nil
}

// Decrypt inverts Encrypt. Decrypt(Encrypt(x)) == x for all valid inputs.
func (c *Cipher) Decrypt(ciphertextHex string) (string, error) {
	raw, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", ErrDecrypt
	}
	ns := c.aead.NonceSize()
	if len(raw) < ns {
		return "", ErrDecrypt
	}
	plaintext, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}
