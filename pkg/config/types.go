package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent openrag CLI configuration stored as
// config.toml in the .openrag/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version int          `toml:"version"`
	Server  ServerConfig `toml:"server"`
	Chat    ChatConfig   `toml:"chat"`
	Output  OutputConfig `toml:"output"`
}

// ServerConfig holds connection settings for the OpenRAG server.
type ServerConfig struct {
	// URL is the full server URL (scheme + host + port).
	URL string `toml:"url,omitempty"`

	// APIKey authenticates requests. OPENRAG_API_KEY overrides it.
	APIKey string `toml:"api_key,omitempty"`
}

// ChatConfig holds retrieval defaults applied to chat and search commands.
type ChatConfig struct {
	Limit          int     `toml:"limit,omitempty"`
	ScoreThreshold float64 `toml:"score_threshold,omitempty"`
}

// OutputConfig holds terminal output preferences.
type OutputConfig struct {
	// Render enables glamour markdown rendering of completed responses.
	Render bool `toml:"render,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error

	// secret marks values that should be prompted for rather than echoed.
	secret bool
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.url": {
		get: func(c *Config) string { return c.Server.URL },
		set: func(c *Config, v string) error { c.Server.URL = v; return nil },
	},
	"server.api_key": {
		get:    func(c *Config) string { return c.Server.APIKey },
		set:    func(c *Config, v string) error { c.Server.APIKey = v; return nil },
		secret: true,
	},
	"chat.limit": {
		get: func(c *Config) string { return strconv.Itoa(c.Chat.Limit) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("chat.limit must be an integer: %w", err)
			}
			if n < 1 {
				return fmt.Errorf("chat.limit must be positive, got %d", n)
			}
			c.Chat.Limit = n
			return nil
		},
	},
	"chat.score_threshold": {
		get: func(c *Config) string { return strconv.FormatFloat(c.Chat.ScoreThreshold, 'f', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("chat.score_threshold must be a number: %w", err)
			}
			if f < 0 || f > 1 {
				return fmt.Errorf("chat.score_threshold must be between 0 and 1, got %v", f)
			}
			c.Chat.ScoreThreshold = f
			return nil
		},
	},
	"output.render": {
		get: func(c *Config) string { return strconv.FormatBool(c.Output.Render) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("output.render must be true or false: %w", err)
			}
			c.Output.Render = b
			return nil
		},
	},
}

// IsSecretConfigKey reports whether the key's value should be hidden when
// displayed and prompted for rather than passed on the command line.
func IsSecretConfigKey(key string) bool {
	info, ok := configKeys[key]
	return ok && info.secret
}
