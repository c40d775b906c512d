package config

const (
	defaultServerURL = "http://localhost:8000"

	defaultChatLimit          = 10
	defaultChatScoreThreshold = 0.0
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			URL: defaultServerURL,
		},
		Chat: ChatConfig{
			Limit:          defaultChatLimit,
			ScoreThreshold: defaultChatScoreThreshold,
		},
		Output: OutputConfig{
			Render: false,
		},
	}
}
