package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Manager issues, validates, and retires sessions against a Store.
type Manager struct {
	store     Store
	generator *Generator
	timeout   time.Duration
	logger    zerolog.Logger
}

func NewManager(store Store, timeout time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		store:     store,
		generator: NewGenerator(),
		timeout:   timeout,
		logger:    logger.With().Str("component", "session_manager").Logger(),
	}
}

// Create mints a new session for the given client.
func (m *Manager) Create(ctx context.Context, client Client, protocolVersion string) (*Session, error) {
	id, err := m.generator.Generate()
	if err != nil {
		m.logger.Error().Err(err).
			Str("remote_addr", client.RemoteAddr).
			Msg("Failed to generate session ID")
		return nil, err
	}

	now := time.Now()
	sess := &Session{
		ID:              id,
		CreatedAt:       now,
		LastAccess:      now,
		ExpiresAt:       now.Add(m.timeout),
		Client:          client,
		ProtocolVersion: protocolVersion,
	}

	if err := m.store.Set(ctx, id, sess); err != nil {
		return nil, NewStorageError("create", err)
	}

	m.logger.Info().
		Str("session_id", id).
		Str("client_name", client.Name).
		Str("remote_addr", client.RemoteAddr).
		Time("expires_at", sess.ExpiresAt).
		Msg("Session created")

	return sess, nil
}

// Validate checks the ID format, resolves the session, and rejects expired
// ones. Expired sessions are deleted on sight.
func (m *Manager) Validate(ctx context.Context, id string) (*Session, error) {
	if err := m.generator.Validate(id); err != nil {
		return nil, err
	}

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if sess.IsExpired() {
		if derr := m.store.Delete(ctx, id); derr != nil {
			m.logger.Warn().Err(derr).
				Str("session_id", id).
				Msg("Failed to delete expired session")
		}
		return nil, NewExpiredError(id)
	}

	return sess, nil
}

// Refresh extends the lifetime of an active session.
func (m *Manager) Refresh(ctx context.Context, id string) error {
	sess, err := m.Validate(ctx, id)
	if err != nil {
		return err
	}

	sess.Touch(m.timeout)
	if err := m.store.Set(ctx, id, sess); err != nil {
		return NewStorageError("refresh", err)
	}
	return nil
}

// Delete retires a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.logger.Info().Str("session_id", id).Msg("Session deleted")
	return nil
}

// Sweep removes every expired session and returns how many were deleted.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	sessions, err := m.store.List(ctx)
	if err != nil {
		return 0, NewStorageError("sweep", err)
	}

	deleted := 0
	now := time.Now()
	for _, sess := range sessions {
		if !now.After(sess.ExpiresAt) {
			continue
		}
		if err := m.store.Delete(ctx, sess.ID); err != nil {
			m.logger.Warn().Err(err).
				Str("session_id", sess.ID).
				Msg("Failed to delete expired session during sweep")
			continue
		}
		deleted++
	}

	if deleted > 0 {
		m.logger.Info().Int("deleted_count", deleted).Msg("Session sweep completed")
	}
	return deleted, nil
}

// Count returns the number of stored sessions, expired ones included until
// the next sweep.
func (m *Manager) Count(ctx context.Context) (int, error) {
	count, err := m.store.Count(ctx)
	if err != nil {
		return 0, NewStorageError("count", err)
	}
	return count, nil
}
