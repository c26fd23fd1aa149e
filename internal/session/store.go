package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// MemoryStore is an in-process Store backed by a map.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   zerolog.Logger
}

func NewMemoryStore(logger zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		logger:   logger.With().Str("component", "session_store").Logger(),
	}
}

func (s *MemoryStore) Set(ctx context.Context, id string, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = sess
	s.logger.Debug().
		Str("session_id", id).
		Time("expires_at", sess.ExpiresAt).
		Msg("Stored session")
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, NewNotFoundError(id)
	}
	return sess, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return NewNotFoundError(id)
	}
	delete(s.sessions, id)
	s.logger.Debug().Str("session_id", id).Msg("Deleted session")
	return nil
}

// List returns copies of all stored sessions so callers can inspect them
// without racing against concurrent refreshes.
func (s *MemoryStore) List(ctx context.Context) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		copied := *sess
		out = append(out, &copied)
	}
	return out, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := len(s.sessions)
	s.sessions = make(map[string]*Session)
	s.logger.Info().Int("cleared_sessions", cleared).Msg("Session store closed")
	return nil
}
