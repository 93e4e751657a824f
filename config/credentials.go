package config

import (
	"fmt"
	"strings"
)

// CredentialsBackend selects where the device keeps signed-in credentials.
type CredentialsBackend string

const (
	// CredentialsBackendFile stores credentials in a 0600 file under Dir.
	CredentialsBackendFile CredentialsBackend = "file"
	// CredentialsBackendRedis stores credentials in Redis.
	CredentialsBackendRedis CredentialsBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for CredentialsBackend.
func (b *CredentialsBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "file", "redis":
		*b = CredentialsBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid CredentialsBackend: %q (valid options: file, redis)", v)
	}
}

// CredentialsConfig controls the credential store.
type CredentialsConfig struct {
	Backend CredentialsBackend `env:"CREDENTIALS_BACKEND" envDefault:"file"`

	// Dir is the file backend directory. Empty means ~/.hotelflow.
	Dir string `env:"CREDENTIALS_DIR"`

	// Key names the single stored entry.
	Key string `env:"CREDENTIALS_KEY" envDefault:"creds"`

	// EncryptionKey seals stored credentials with AES-GCM: either 64 hex
	// characters or a passphrase. Empty stores them unsealed.
	EncryptionKey string `env:"CREDENTIALS_ENCRYPTION_KEY"`
}

// Sanitize applies guardrails to credential configuration values.
func (c *CredentialsConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = CredentialsBackendFile
	}
	c.Dir = strings.TrimSpace(c.Dir)
	if c.Key = strings.TrimSpace(c.Key); c.Key == "" {
		c.Key = "creds"
	}
	c.EncryptionKey = strings.TrimSpace(c.EncryptionKey)
}

// RolesConfig lists the server group names that map to each role.
// Lists are ";" separated; matching is case-insensitive.
type RolesConfig struct {
	SupervisorGroups  []string `env:"ROLE_SUPERVISOR_GROUPS"  envDefault:"supervisor"  envSeparator:";"`
	MaintenanceGroups []string `env:"ROLE_MAINTENANCE_GROUPS" envDefault:"maintenance" envSeparator:";"`
	FrontdeskGroups   []string `env:"ROLE_FRONTDESK_GROUPS"   envDefault:"frontdesk"   envSeparator:";"`
}

// Sanitize trims group lists and restores defaults for emptied lists.
func (c *RolesConfig) Sanitize() {
	c.SupervisorGroups = cleanList(c.SupervisorGroups, "supervisor")
	c.MaintenanceGroups = cleanList(c.MaintenanceGroups, "maintenance")
	c.FrontdeskGroups = cleanList(c.FrontdeskGroups, "frontdesk")
}

func cleanList(in []string, fallback string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return []string{fallback}
	}
	return out
}

// IdentityConfig holds JMESPath expressions applied to the identity payload.
type IdentityConfig struct {
	UsernameExpr string `env:"IDENTITY_USERNAME_EXPR" envDefault:"username"`
	GroupsExpr   string `env:"IDENTITY_GROUPS_EXPR"   envDefault:"groups"`
}

// Sanitize restores default expressions when blank.
func (c *IdentityConfig) Sanitize() {
	if c.UsernameExpr = strings.TrimSpace(c.UsernameExpr); c.UsernameExpr == "" {
		c.UsernameExpr = "username"
	}
	if c.GroupsExpr = strings.TrimSpace(c.GroupsExpr); c.GroupsExpr == "" {
		c.GroupsExpr = "groups"
	}
}
