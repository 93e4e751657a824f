// Package credstore provides CredentialStore adapters that keep the device
// credentials in a sealed single-entry envelope.
package credstore

import (
	"encoding/json"
	"strings"

	"github.com/JotaC95/HotelApp/internal/cryptoutil"
	domainauth "github.com/JotaC95/HotelApp/internal/domain/auth"
	apperrors "github.com/JotaC95/HotelApp/internal/errors"
)

// DefaultKey is the entry name used when none is configured.
const DefaultKey = "creds"

// Encode serializes creds to JSON and seals it with the entry key bound as
// associated data.
func Encode(sealer cryptoutil.Sealer, key string, creds domainauth.Credentials) (string, error) {
	data, err := json.Marshal(creds)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeStorage, "encode credentials")
	}
	sealed, err := sealer.Seal(data, []byte(key))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeStorage, "seal credentials")
	}
	return sealed, nil
}

// Decode reverses Encode. Any failure is a storage error; callers must not
// treat it as absence.
func Decode(sealer cryptoutil.Sealer, key, raw string) (*domainauth.Credentials, error) {
	data, err := sealer.Open(strings.TrimSpace(raw), []byte(key))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorage, "open credentials")
	}
	var creds domainauth.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorage, "decode credentials")
	}
	return &creds, nil
}
