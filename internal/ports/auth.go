package ports

// Package ports defines interfaces (hexagonal ports) for session-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/JotaC95/HotelApp/internal/domain/auth"
)

// CredentialStore persists the single set of device credentials.
//
// Load returns (nil, nil) when nothing is stored. Read or decode failures
// are reported as storage errors and never as absence. Clear is idempotent.
type CredentialStore interface {
	Save(ctx context.Context, creds domainauth.Credentials) error
	Load(ctx context.Context) (*domainauth.Credentials, error)
	Clear(ctx context.Context) error
}

// IdentityProvider fetches the caller's identity using the current
// Authorization of the shared client.
type IdentityProvider interface {
	Identity(ctx context.Context) (domainauth.Identity, error)
}

// RoleMapper maps identity groups to an application role.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}
