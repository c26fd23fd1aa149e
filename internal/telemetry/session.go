package telemetry

import (
	"context"

	"odmcp/internal/session"
)

// SessionManagerWrapper decorates a session manager with lifecycle counters.
type SessionManagerWrapper struct {
	*session.Manager
	metrics *Metrics
}

func NewSessionManagerWrapper(manager *session.Manager, metrics *Metrics) *SessionManagerWrapper {
	return &SessionManagerWrapper{Manager: manager, metrics: metrics}
}

func (w *SessionManagerWrapper) Create(ctx context.Context, client session.Client, protocolVersion string) (*session.Session, error) {
	sess, err := w.Manager.Create(ctx, client, protocolVersion)
	if err == nil {
		w.metrics.RecordSessionCreated()
	}
	return sess, err
}

func (w *SessionManagerWrapper) Delete(ctx context.Context, id string) error {
	err := w.Manager.Delete(ctx, id)
	if err == nil {
		w.metrics.RecordSessionDeleted()
	}
	return err
}

func (w *SessionManagerWrapper) Sweep(ctx context.Context) (int, error) {
	deleted, err := w.Manager.Sweep(ctx)
	if deleted > 0 {
		w.metrics.RecordSessionsExpired(deleted)
	}
	return deleted, err
}
