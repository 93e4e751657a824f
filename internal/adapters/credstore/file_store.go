package credstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/JotaC95/HotelApp/internal/cryptoutil"
	domainauth "github.com/JotaC95/HotelApp/internal/domain/auth"
	apperrors "github.com/JotaC95/HotelApp/internal/errors"
)

const (
	dirPerm  fs.FileMode = 0o700
	filePerm fs.FileMode = 0o600
)

// FileStore keeps the credential envelope in <dir>/<key>.json.
type FileStore struct {
	dir    string
	key    string
	sealer cryptoutil.Sealer
}

// NewFileStore creates a file-backed store. An empty key falls back to
// DefaultKey and a nil sealer to cryptoutil.NoopSealer.
func NewFileStore(dir, key string, sealer cryptoutil.Sealer) *FileStore {
	if key == "" {
		key = DefaultKey
	}
	if sealer == nil {
		sealer = cryptoutil.NoopSealer{}
	}
	return &FileStore{dir: dir, key: key, sealer: sealer}
}

// DefaultDir returns ~/.hotelflow, or "" when the home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hotelflow")
}

// Path returns the envelope file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, s.key+".json")
}

// Save seals creds and overwrites the stored entry.
func (s *FileStore) Save(ctx context.Context, creds domainauth.Credentials) error {
	if err := ctx.Err(); err != nil {
		return apperrors.FromStorage(err, "save credentials")
	}
	if s.dir == "" {
		return apperrors.Storage("credential directory is not configured")
	}
	sealed, err := Encode(s.sealer, s.key, creds)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "create credential dir")
	}
	if err := writeAtomic(s.dir, s.Path(), []byte(sealed)); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "write credentials")
	}
	return nil
}

// Load returns nil, nil when nothing is stored.
func (s *FileStore) Load(ctx context.Context) (*domainauth.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.FromStorage(err, "load credentials")
	}
	if s.dir == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorage, "read credentials")
	}
	return Decode(s.sealer, s.key, string(data))
}

// Clear removes the entry; clearing an empty store is not an error.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return apperrors.FromStorage(err, "clear credentials")
	}
	if s.dir == "" {
		return nil
	}
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "remove credentials")
	}
	return nil
}

// writeAtomic writes data to a temp file in dir and renames it over path so
// readers never observe a partial envelope.
func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".creds-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
