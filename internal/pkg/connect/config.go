package connect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MarvinHaas/ClipCast/internal/pkg/env"
)

// Config carries the OAuth client material for platform connections. It is
// built once at startup and validated eagerly: a missing client id or secret
// must abort boot instead of producing authorize URLs that point nowhere.
type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	// BaseURL is the externally reachable application URL used to derive
	// callback redirect URIs.
	BaseURL string
}

// LoadConfig reads the connection config from the environment. BaseURL falls
// back to the local development address when PUBLIC_DOMAIN is unset.
func LoadConfig() (Config, error) {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	if base == "" {
		base = "http://localhost:" + env.GetEnv("APP_PORT", "3000")
	}

	cfg := Config{
		GoogleClientID:     env.GetEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: env.GetEnv("GOOGLE_CLIENT_SECRET", ""),
		BaseURL:            base,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every missing field at once so a broken deployment is
// fixed in one pass.
func (c Config) Validate() error {
	var missing []string
	if c.GoogleClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}
	if c.GoogleClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}
	if c.BaseURL == "" {
		missing = append(missing, "PUBLIC_DOMAIN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("connect: missing configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// CallbackURL returns the redirect URI registered with the provider for the
// given platform.
func (c Config) CallbackURL(platform Platform) string {
	return fmt.Sprintf("%s/connect/%s/callback", c.BaseURL, platform)
}

var ErrNotConfigured = errors.New("connect: registry not initialized")
