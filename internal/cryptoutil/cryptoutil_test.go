package cryptoutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestAESGCMSealer_RoundTrip(t *testing.T) {
	s, err := NewAESGCMSealer(testKey())
	require.NoError(t, err)

	plaintext := []byte(`{"username":"maria","password":"s3cret"}`)
	sealed, err := s.Seal(plaintext, []byte("creds"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, "v1:"))
	assert.NotContains(t, sealed, "maria")

	opened, err := s.Open(sealed, []byte("creds"))
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestAESGCMSealer_AssociatedDataMismatch(t *testing.T) {
	s, err := NewAESGCMSealer(testKey())
	require.NoError(t, err)

	sealed, err := s.Seal([]byte("secret"), []byte("creds"))
	require.NoError(t, err)

	_, err = s.Open(sealed, []byte("other-slot"))
	require.Error(t, err)
}

func TestAESGCMSealer_ReadsNoopValues(t *testing.T) {
	s, err := NewAESGCMSealer(testKey())
	require.NoError(t, err)

	legacy, err := NoopSealer{}.Seal([]byte("legacy"), nil)
	require.NoError(t, err)

	opened, err := s.Open(legacy, []byte("creds"))
	require.NoError(t, err)
	assert.Equal(t, []byte("legacy"), opened)
}

func TestAESGCMSealer_InvalidKey(t *testing.T) {
	_, err := NewAESGCMSealer([]byte("short"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be 32 bytes")
}

func TestAESGCMSealer_InvalidValues(t *testing.T) {
	s, err := NewAESGCMSealer(testKey())
	require.NoError(t, err)

	_, err = s.Open("v2:somedata", nil)
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = s.Open("v1:!!!invalid!!!", nil)
	require.Error(t, err)

	_, err = s.Open("v1:"+base64.StdEncoding.EncodeToString([]byte("x")), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestNoopSealer(t *testing.T) {
	sealed, err := NoopSealer{}.Seal([]byte("value"), nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, "noop:"))

	opened, err := NoopSealer{}.Open(sealed, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), opened)

	_, err = NoopSealer{}.Open("v1:abc", nil)
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestKeyFromString(t *testing.T) {
	hexKey := strings.Repeat("ab", 32)
	key, err := KeyFromString(hexKey)
	require.NoError(t, err)
	assert.Len(t, key, 32)
	assert.Equal(t, byte(0xab), key[0])

	raw := bytes.Repeat([]byte{0x5c}, 32)
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawURLEncoding} {
		key, err = KeyFromString(enc.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, key, "base64 keys are decoded, not hashed")
	}

	passphrase := "correct horse battery staple"
	key, err = KeyFromString(passphrase)
	require.NoError(t, err)
	sum := sha256.Sum256([]byte(passphrase))
	assert.Equal(t, sum[:], key)

	_, err = KeyFromString("  ")
	require.Error(t, err)
}
