package clerk

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config holds Clerk frontend API configuration.
type Config struct {
	// FrontendAPIURL is the instance frontend API origin
	// (e.g., "https://verb-noun-00.clerk.accounts.dev").
	FrontendAPIURL string

	// JWKSURL overrides the default JWKS endpoint (optional).
	// Default: "{FrontendAPIURL}/.well-known/jwks.json".
	JWKSURL string

	// HTTPClient overrides the default client (optional).
	HTTPClient *http.Client

	// Timeout applies to the default client only.
	// Default: 10 seconds.
	Timeout time.Duration

	// KeyFunc overrides JWKS-based key resolution (optional). Intended for
	// tests and offline validation.
	KeyFunc jwt.Keyfunc
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(frontendAPIURL string) Config {
	return Config{
		FrontendAPIURL: frontendAPIURL,
		Timeout:        10 * time.Second,
	}
}

func (c Config) baseURL() string {
	base := strings.TrimSpace(c.FrontendAPIURL)
	return strings.TrimSuffix(base, "/")
}

func (c Config) jwksURL() string {
	if c.JWKSURL != "" {
		return c.JWKSURL
	}
	if base := c.baseURL(); base != "" {
		return base + "/.well-known/jwks.json"
	}
	return ""
}

func (c Config) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &http.Client{Timeout: timeout}
}

func (c Config) validate() error {
	if c.baseURL() == "" {
		return fmt.Errorf("clerk: frontend API URL is required")
	}
	return nil
}
