package server

import "time"

// Config contains the HTTP server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// SessionTimeout is how long a session stays valid without activity.
	SessionTimeout time.Duration

	// CleanupInterval is how often expired sessions are swept.
	CleanupInterval time.Duration

	// RequireSession controls whether non-initialize requests must present
	// a valid Mcp-Session-Id header.
	RequireSession bool

	// LogLevel is the zerolog level name.
	LogLevel string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		SessionTimeout:  time.Hour,
		CleanupInterval: 5 * time.Minute,
		RequireSession:  true,
		LogLevel:        "info",
	}
}
