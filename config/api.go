package config

import (
	"strings"
	"time"
)

const (
	defaultAPITimeout   = 10 * time.Second
	defaultProbePath    = "/rooms/"
	defaultIdentityPath = "/accounts/me/"
)

// APIConfig describes how to reach the HotelFlow housekeeping API.
type APIConfig struct {
	// BaseURL is normalized by the API client; a bare origin such as
	// http://10.0.2.2:8000 gets /api/housekeeping appended.
	BaseURL string `env:"API_BASE_URL" envDefault:"http://127.0.0.1:8000/api/housekeeping"`

	// Debug logs each request at debug level.
	Debug bool `env:"API_DEBUG" envDefault:"false"`

	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`

	// ProbePath is the protected resource used to validate credentials.
	ProbePath string `env:"API_PROBE_PATH" envDefault:"/rooms/"`

	IdentityPath string `env:"API_IDENTITY_PATH" envDefault:"/accounts/me/"`

	UserAgent string `env:"API_USER_AGENT" envDefault:"hotelflow-cli"`
}

// Sanitize applies guardrails to API configuration values.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.Timeout <= 0 {
		c.Timeout = defaultAPITimeout
	}
	c.ProbePath = cleanPath(c.ProbePath, defaultProbePath)
	c.IdentityPath = cleanPath(c.IdentityPath, defaultIdentityPath)
	c.UserAgent = strings.TrimSpace(c.UserAgent)
}

func cleanPath(p, fallback string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return fallback
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
