package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: HotelFlow API endpoint configuration
//   - credentials.go: credential storage, role aliases and identity parsing
//   - redis.go: Redis connection used by the redis credential backend
//   - observability.go: metrics configuration
type AppConfig struct {
	// IsDev enables debug logging. Set DEV=true or NODE_ENV=development.
	IsDev bool `env:"DEV" envDefault:"false"`

	API APIConfig

	Credentials CredentialsConfig

	Redis RedisConfig `envPrefix:"REDIS_"`

	Roles RolesConfig

	Identity IdentityConfig

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.Credentials.Sanitize()
	c.Redis.Sanitize()
	c.Roles.Sanitize()
	c.Identity.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// DebugEnabled reports whether debug logging was requested.
func (c *AppConfig) DebugEnabled() bool {
	return c.IsDev || c.API.Debug
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
