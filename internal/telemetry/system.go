package telemetry

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// SystemCollector samples runtime stats on a fixed interval.
type SystemCollector struct {
	metrics  *Metrics
	logger   zerolog.Logger
	interval time.Duration
	done     chan struct{}
}

func NewSystemCollector(metrics *Metrics, logger zerolog.Logger, interval time.Duration) *SystemCollector {
	return &SystemCollector{
		metrics:  metrics,
		logger:   logger.With().Str("component", "system_metrics").Logger(),
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start runs the sampling loop until the context is canceled or Stop is
// called. It blocks; run it in its own goroutine.
func (c *SystemCollector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.Info().Dur("interval", c.interval).Msg("Starting system metrics collection")

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-ticker.C:
			c.collect()
		}
	}
}

func (c *SystemCollector) Stop() {
	close(c.done)
}

func (c *SystemCollector) collect() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	c.metrics.UpdateSystemMetrics(runtime.NumGoroutine(), m.Alloc)
}
