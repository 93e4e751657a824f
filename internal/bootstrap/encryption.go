package bootstrap

import (
	"log/slog"

	"github.com/JotaC95/HotelApp/internal/cryptoutil"
)

// CreateSealer creates an AES-GCM sealer from the provided key. A 64
// character hex key is used as is; anything else is hashed to 32 bytes.
// Returns a noop sealer if the key is empty or invalid (with warning log).
//
//nolint:ireturn // Returning interface is intentional for sealer abstraction
func CreateSealer(key string, logger *slog.Logger) cryptoutil.Sealer {
	if key == "" {
		if logger != nil {
			logger.Warn("credentials encryption key is empty, storing credentials unsealed")
		}
		return cryptoutil.NoopSealer{}
	}

	keyBytes, err := cryptoutil.KeyFromString(key)
	if err == nil {
		var sealer *cryptoutil.AESGCMSealer
		if sealer, err = cryptoutil.NewAESGCMSealer(keyBytes); err == nil {
			return sealer
		}
	}
	if logger != nil {
		logger.Warn("failed to create sealer, storing credentials unsealed", "error", err)
	}
	return cryptoutil.NoopSealer{}
}
