// Package crypto implements field-level encryption for sensitive clinic
// records: authenticated symmetric encryption plus a keyed one-way hash
// that enables equality lookups without decryption.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/medovate/clinic-backend/internal/domain"
)

// Key derivation is deterministic: the same master secret always yields the
// same keys, and the nonce is derived from the plaintext, so identical
// plaintext produces identical ciphertext. That property is what makes
// encrypted columns searchable by exact match, at the cost of revealing
// value equality to anyone holding the ciphertext.
const (
	keySalt    = "clinic-field-cipher-v1"
	iterations = 210_000
	keyLen     = 32
)

// FieldCipher encrypts and decrypts individual field values.
type FieldCipher struct {
	aead     cipher.AEAD
	hashKey  []byte
	nonceKey []byte
}

// NewFieldCipher derives encryption keys from the master secret.
// Secrets shorter than 32 characters are rejected.
func NewFieldCipher(masterSecret string) (*FieldCipher, error) {
	if len(masterSecret) < 32 {
		return nil, fmt.Errorf("master secret must be at least 32 characters: %w", domain.ErrValidation)
	}

	key := pbkdf2.Key([]byte(masterSecret), []byte(keySalt), iterations, keyLen, sha256.New)
	hashKey := pbkdf2.Key([]byte(masterSecret), []byte(keySalt+":search"), iterations, keyLen, sha256.New)
	nonceKey := pbkdf2.Key([]byte(masterSecret), []byte(keySalt+":nonce"), iterations, keyLen, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &FieldCipher{aead: aead, hashKey: hashKey, nonceKey: nonceKey}, nil
}

// EncryptString encrypts a field value with AES-256-GCM and returns a
// transport-safe base64 string of nonce||ciphertext. Empty input passes
// through unchanged.
func (c *FieldCipher) EncryptString(plaintext string) string {
	if plaintext == "" {
		return ""
	}

	nonce := c.deriveNonce(plaintext)
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)

	out := make([]byte, 0, len(nonce)+len(sealed))
	out = append(out, nonce...)
	out = append(out, sealed...)

	return base64.RawURLEncoding.EncodeToString(out)
}

// DecryptString reverses EncryptString. Tampered or malformed input fails
// with a wrapped domain.ErrDecryption. Empty input passes through unchanged.
func (c *FieldCipher) DecryptString(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", domain.ErrDecryption)
	}

	ns := c.aead.NonceSize()
	if len(raw) <= ns {
		return "", fmt.Errorf("ciphertext too short: %w", domain.ErrDecryption)
	}

	plain, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("open ciphertext: %w", domain.ErrDecryption)
	}

	return string(plain), nil
}

// HashForSearch returns a hex HMAC-SHA256 digest of the normalized value.
// Deterministic per master secret, so equal values can be matched in the
// store without exposing plaintext. Empty input yields an empty digest.
func (c *FieldCipher) HashForSearch(plaintext string) string {
	if plaintext == "" {
		return ""
	}

	normalized := strings.ToLower(strings.TrimSpace(plaintext))
	mac := hmac.New(sha256.New, c.hashKey)
	mac.Write([]byte(normalized))

	return hex.EncodeToString(mac.Sum(nil))
}

// deriveNonce computes a synthetic nonce from the plaintext. Keyed
// separately from the data key so nonce bytes reveal nothing about it.
func (c *FieldCipher) deriveNonce(plaintext string) []byte {
	mac := hmac.New(sha256.New, c.nonceKey)
	mac.Write([]byte(plaintext))
	return mac.Sum(nil)[:c.aead.NonceSize()]
}
