package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sealer seals and opens small secrets. The associated data binds a sealed
// value to the slot it was written to; opening with different data fails.
type Sealer interface {
	Seal(plaintext, associated []byte) (string, error)
	Open(sealed string, associated []byte) ([]byte, error)
}

const (
	// Versioned prefix to allow future key/algorithm rotations without data migrations.
	prefixV1   = "v1:"
	noopPrefix = "noop:"
	keySize    = 32
)

// ErrUnknownFormat is returned when a sealed value has no recognised prefix.
var ErrUnknownFormat = errors.New("unknown sealed value format")

// AESGCMSealer implements Sealer using AES-256-GCM.
type AESGCMSealer struct {
	aead cipher.AEAD
}

// NewAESGCMSealer constructs a sealer. Key must be 32 bytes (AES-256).
func NewAESGCMSealer(key []byte) (*AESGCMSealer, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("aes-gcm key must be %d bytes, got %d", keySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESGCMSealer{aead: aead}, nil
}

var keyEncodings = []*base64.Encoding{
	base64.StdEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.RawURLEncoding,
}

// KeyFromString derives a 32-byte key. A 64-char hex string or a base64
// (standard or URL alphabet) encoding of 32 bytes is decoded; anything else
// is treated as a passphrase and hashed with SHA-256.
func KeyFromString(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("encryption key is empty")
	}
	if decoded, err := hex.DecodeString(s); err == nil && len(decoded) == keySize {
		return decoded, nil
	}
	for _, enc := range keyEncodings {
		if decoded, err := enc.DecodeString(s); err == nil && len(decoded) == keySize {
			return decoded, nil
		}
	}
	sum := sha256.Sum256([]byte(s))
	return sum[:], nil
}

// Seal encrypts plaintext under a random nonce and returns "v1:" + base64(nonce||ciphertext).
func (s *AESGCMSealer) Seal(plaintext, associated []byte) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, plaintext, associated)
	return prefixV1 + base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal. Values written by NoopSealer are still readable so a
// key can be introduced without losing stored credentials.
func (s *AESGCMSealer) Open(sealed string, associated []byte) ([]byte, error) {
	if strings.HasPrefix(sealed, noopPrefix) {
		return NoopSealer{}.Open(sealed, associated)
	}
	if !strings.HasPrefix(sealed, prefixV1) {
		return nil, ErrUnknownFormat
	}
	data, err := base64.StdEncoding.DecodeString(sealed[len(prefixV1):])
	if err != nil {
		return nil, fmt.Errorf("decode sealed value: %w", err)
	}
	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("sealed value too short")
	}
	plaintext, err := s.aead.Open(nil, data[:nonceSize], data[nonceSize:], associated)
	if err != nil {
		return nil, fmt.Errorf("open sealed value: %w", err)
	}
	return plaintext, nil
}

// NoopSealer stores plaintext base64-encoded behind a marker prefix.
// Used when no encryption key is configured, and in tests.
type NoopSealer struct{}

func (NoopSealer) Seal(plaintext, _ []byte) (string, error) {
	return noopPrefix + base64.StdEncoding.EncodeToString(plaintext), nil
}

func (NoopSealer) Open(sealed string, _ []byte) ([]byte, error) {
	if !strings.HasPrefix(sealed, noopPrefix) {
		return nil, ErrUnknownFormat
	}
	decoded, err := base64.StdEncoding.DecodeString(sealed[len(noopPrefix):])
	if err != nil {
		return nil, fmt.Errorf("decode noop value: %w", err)
	}
	return decoded, nil
}
