package auth

// Package auth contains domain-level types for credentials, identities and
// session state. It is pure and free of transport/storage concerns.

import (
	"encoding/base64"
	"strings"
)

// Role represents an operational persona that decides which screens and
// commands a user sees. Server-side authorization is not modelled here.
type Role string

const (
	RoleCleaner     Role = "CLEANER"
	RoleSupervisor  Role = "SUPERVISOR"
	RoleMaintenance Role = "MAINTENANCE"
	RoleFrontdesk   Role = "FRONTDESK"
)

// DefaultRole is assigned when groups are absent, unrecognized, or the
// identity lookup fails.
const DefaultRole = RoleCleaner

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleCleaner, RoleSupervisor, RoleMaintenance, RoleFrontdesk}
}

// ParseRole returns the role named by s (case-insensitive).
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleCleaner, RoleSupervisor, RoleMaintenance, RoleFrontdesk:
		return r, true
	default:
		return "", false
	}
}

// Label returns the display label shown next to the username.
func (r Role) Label() string {
	switch r {
	case RoleSupervisor:
		return "Supervisor"
	case RoleMaintenance:
		return "Maintenance"
	case RoleFrontdesk:
		return "Front desk"
	case RoleCleaner:
		return "Cleaner"
	default:
		return "-"
	}
}

// Credentials is the single username/password pair persisted on the device.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// BasicAuthorization returns the HTTP Basic Authorization header value.
func (c Credentials) BasicAuthorization() string {
	token := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
	return "Basic " + token
}

// Valid reports whether both fields are non-empty.
func (c Credentials) Valid() bool {
	return strings.TrimSpace(c.Username) != "" && c.Password != ""
}

// Identity is the caller's identity as reported by the identity endpoint.
type Identity struct {
	Username string
	Groups   []string
}

// State is a snapshot of process-wide session state.
// Role and Username are nil until resolved; a snapshot with
// Authenticated=true and Role=nil is a legal transient state.
type State struct {
	Ready         bool
	Authenticated bool
	Role          *Role
	Username      *string
}

// HasRole reports whether the snapshot carries role r.
func (s State) HasRole(r Role) bool {
	return s.Role != nil && *s.Role == r
}

// RoleOrEmpty returns the role or "" when unresolved.
func (s State) RoleOrEmpty() Role {
	if s.Role == nil {
		return ""
	}
	return *s.Role
}

// UsernameOrEmpty returns the username or "" when unknown.
func (s State) UsernameOrEmpty() string {
	if s.Username == nil {
		return ""
	}
	return *s.Username
}
