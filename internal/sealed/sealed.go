// Package sealed implements the message envelope: AES-256-GCM with a random
// 96-bit IV per message. The room key is generated once at room creation and
// travels in the room URL fragment, never through the stores, so the server
// only ever sees sealed payloads.
//
// Wire format: "v1:" + base64url(iv) + ":" + base64url(ciphertext).
package sealed

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"six/backend/internal/apperr"
)

const (
	envelopeVersion = "v1"
	keySize         = 32
	ivSize          = 12
)

var b64 = base64.RawURLEncoding

// GenerateKey returns a fresh 256-bit room key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// EncodeKey renders a key for the room URL fragment.
func EncodeKey(key []byte) string {
	return b64.EncodeToString(key)
}

// DecodeKey parses a key from the room URL fragment.
func DecodeKey(s string) ([]byte, error) {
	key, err := b64.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("malformed room key: %w", err)
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("room key must be %d bytes, got %d", keySize, len(key))
	}
	return key, nil
}

// Seal encrypts plaintext under the room key and returns the envelope.
func Seal(plaintext string, key []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	ct := gcm.Seal(nil, iv, []byte(plaintext), nil)
	return envelopeVersion + ":" + b64.EncodeToString(iv) + ":" + b64.EncodeToString(ct), nil
}

// Open decrypts an envelope. Any failure, from a malformed envelope to a
// wrong key, comes back as a DecryptionFailure so the caller can show a
// placeholder instead of the message.
func Open(envelope string, key []byte) (string, error) {
	parts := strings.Split(envelope, ":")
	if len(parts) != 3 || parts[0] != envelopeVersion {
		return "", apperr.Wrap(apperr.KindDecryptionFailure, "unrecognized envelope format", nil)
	}

	iv, err := b64.DecodeString(parts[1])
	if err != nil || len(iv) != ivSize {
		return "", apperr.Wrap(apperr.KindDecryptionFailure, "malformed envelope iv", err)
	}
	ct, err := b64.DecodeString(parts[2])
	if err != nil {
		return "", apperr.Wrap(apperr.KindDecryptionFailure, "malformed envelope ciphertext", err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", apperr.Wrap(apperr.KindDecryptionFailure, "bad room key", err)
	}

	pt, err := gcm.Open(nil, iv, ct, nil)
	if err != nil {
		return "", apperr.Wrap(apperr.KindDecryptionFailure, "message could not be decrypted", err)
	}
	return string(pt), nil
}

// IsSealed reports whether content looks like an envelope rather than
// plaintext. Legacy plaintext rows pass through untouched.
func IsSealed(content string) bool {
	return strings.HasPrefix(content, envelopeVersion+":")
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", keySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
