// Package session tracks MCP clients connected over the HTTP transport.
// Each client is issued an opaque session ID on initialize and presents it
// on subsequent requests via the Mcp-Session-Id header.
package session

import (
	"context"
	"time"
)

// Session is one active client binding.
type Session struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	LastAccess      time.Time `json:"last_access"`
	ExpiresAt       time.Time `json:"expires_at"`
	Client          Client    `json:"client"`
	ProtocolVersion string    `json:"protocol_version"`
}

// Client identifies the peer that opened the session.
type Client struct {
	Name       string `json:"name,omitempty"`
	Version    string `json:"version,omitempty"`
	RemoteAddr string `json:"remote_addr,omitempty"`
}

// IsExpired reports whether the session lifetime has passed.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch records activity and extends the session lifetime.
func (s *Session) Touch(timeout time.Duration) {
	now := time.Now()
	s.LastAccess = now
	s.ExpiresAt = now.Add(timeout)
}

// Store is the persistence boundary for sessions.
type Store interface {
	Set(ctx context.Context, id string, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Session, error)
	Count(ctx context.Context) (int, error)
	Close() error
}
