package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/JotaC95/HotelApp/internal/domain/auth"
	"github.com/JotaC95/HotelApp/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialStore  = (*MemoryCredentialStore)(nil)
	_ ports.IdentityProvider = (*StaticIdentityProvider)(nil)
	_ ports.RoleMapper       = (*StaticRoleMapper)(nil)
)

// MemoryCredentialStore is an in-memory credential store for unit tests.
// The *Err fields make the matching operation fail without touching state.
type MemoryCredentialStore struct {
	mu    sync.Mutex
	creds *domainauth.Credentials

	SaveErr  error
	LoadErr  error
	ClearErr error

	Saves  int
	Loads  int
	Clears int
}

// NewMemoryCredentialStore creates a store, optionally pre-seeded.
func NewMemoryCredentialStore(initial *domainauth.Credentials) *MemoryCredentialStore {
	m := &MemoryCredentialStore{}
	if initial != nil {
		c := *initial
		m.creds = &c
	}
	return m
}

func (m *MemoryCredentialStore) Save(_ context.Context, creds domainauth.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	c := creds
	m.creds = &c
	return nil
}

func (m *MemoryCredentialStore) Load(_ context.Context) (*domainauth.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Loads++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.creds == nil {
		return nil, nil
	}
	c := *m.creds
	return &c, nil
}

func (m *MemoryCredentialStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clears++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.creds = nil
	return nil
}

// Stored returns the resident credentials without counting as a Load.
func (m *MemoryCredentialStore) Stored() *domainauth.Credentials {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.creds == nil {
		return nil
	}
	c := *m.creds
	return &c
}

// StaticIdentityProvider returns a fixed identity or error.
type StaticIdentityProvider struct {
	mu     sync.Mutex
	Result domainauth.Identity
	Err    error
	// Func overrides the static values when set.
	Func  func(ctx context.Context) (domainauth.Identity, error)
	Calls int
}

func (p *StaticIdentityProvider) Identity(ctx context.Context) (domainauth.Identity, error) {
	p.mu.Lock()
	p.Calls++
	fn, id, err := p.Func, p.Result, p.Err
	p.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return id, err
}

// CallCount returns how many lookups happened.
func (p *StaticIdentityProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Calls
}

// StaticRoleMapper returns Role for every input.
type StaticRoleMapper struct {
	Role domainauth.Role
}

func (m StaticRoleMapper) Map(_ []string) domainauth.Role {
	if m.Role == "" {
		return domainauth.DefaultRole
	}
	return m.Role
}
