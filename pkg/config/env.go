package config

import "os"

// Environment variables that override config file values. They match the
// fallbacks the openrag client itself consults, so CLI and SDK behavior
// stay aligned.
const (
	EnvServerURL = "OPENRAG_URL"
	EnvAPIKey    = "OPENRAG_API_KEY"
)

// ServerURL returns the effective server URL. The OPENRAG_URL environment
// variable wins over the config file value.
func (c *Config) ServerURL() string {
	if v := os.Getenv(EnvServerURL); v != "" {
		return v
	}
	if c.Server.URL != "" {
		return c.Server.URL
	}
	return defaultServerURL
}

// ServerAPIKey returns the effective API key. The OPENRAG_API_KEY environment
// variable wins over the config file value. Empty means no key is configured.
func (c *Config) ServerAPIKey() string {
	if v := os.Getenv(EnvAPIKey); v != "" {
		return v
	}
	return c.Server.APIKey
}
