package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ExpiredRemover is the part of the manager the sweeper drives. Satisfied
// by Manager and its telemetry wrapper.
type ExpiredRemover interface {
	Sweep(ctx context.Context) (int, error)
}

// Sweeper periodically removes expired sessions in the background.
type Sweeper struct {
	manager  ExpiredRemover
	interval time.Duration
	logger   zerolog.Logger

	stopCh    chan struct{}
	stoppedCh chan struct{}

	mu      sync.Mutex
	running bool
}

func NewSweeper(manager ExpiredRemover, interval time.Duration, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		manager:   manager,
		interval:  interval,
		logger:    logger.With().Str("component", "session_sweeper").Logger(),
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Start launches the background sweep loop. Starting twice is a no-op.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true

	s.logger.Info().Dur("interval", s.interval).Msg("Starting session sweeper")
	go s.run(ctx)
}

// Stop halts the loop and waits for it to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	close(s.stopCh)
	<-s.stoppedCh
	s.running = false
	s.logger.Info().Msg("Session sweeper stopped")
}

// Running reports whether the sweep loop is active.
func (s *Sweeper) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.stoppedCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if _, err := s.manager.Sweep(sweepCtx); err != nil {
				s.logger.Error().Err(err).Msg("Session sweep failed")
			}
			cancel()
		}
	}
}
