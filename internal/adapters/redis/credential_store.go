// Package redis provides Redis-based adapters for the HotelFlow client.
package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/JotaC95/HotelApp/internal/adapters/credstore"
	"github.com/JotaC95/HotelApp/internal/cryptoutil"
	domainauth "github.com/JotaC95/HotelApp/internal/domain/auth"
	apperrors "github.com/JotaC95/HotelApp/internal/errors"
)

// DefaultPrefix namespaces keys written by this store.
const DefaultPrefix = "hotelflow:"

// CredentialStore keeps the sealed credential envelope in a single Redis key.
// Entries carry no TTL; they live until cleared.
type CredentialStore struct {
	client redis.UniversalClient
	prefix string
	key    string
	sealer cryptoutil.Sealer
}

// CredentialStoreOptions configures a CredentialStore.
type CredentialStoreOptions struct {
	Prefix string
	Key    string
	Sealer cryptoutil.Sealer
}

// NewCredentialStore creates a Redis-backed credential store.
func NewCredentialStore(client redis.UniversalClient, opts CredentialStoreOptions) *CredentialStore {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.Key == "" {
		opts.Key = credstore.DefaultKey
	}
	if opts.Sealer == nil {
		opts.Sealer = cryptoutil.NoopSealer{}
	}
	return &CredentialStore{
		client: client,
		prefix: opts.Prefix,
		key:    opts.Key,
		sealer: opts.Sealer,
	}
}

func (s *CredentialStore) redisKey() string { return s.prefix + s.key }

// Save seals creds and overwrites the stored entry.
func (s *CredentialStore) Save(ctx context.Context, creds domainauth.Credentials) error {
	sealed, err := credstore.Encode(s.sealer, s.key, creds)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.redisKey(), sealed, 0).Err(); err != nil {
		return apperrors.FromStorage(err, "redis set")
	}
	return nil
}

// Load returns nil, nil when nothing is stored.
func (s *CredentialStore) Load(ctx context.Context) (*domainauth.Credentials, error) {
	data, err := s.client.Get(ctx, s.redisKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.FromStorage(err, "redis get")
	}
	return credstore.Decode(s.sealer, s.key, data)
}

// Clear removes the entry; clearing an empty store is not an error.
func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.redisKey()).Err(); err != nil {
		return apperrors.FromStorage(err, "redis del")
	}
	return nil
}
