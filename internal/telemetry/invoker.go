package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"odmcp/internal/tools"
)

// InvokerWrapper decorates a CallInvoker with per-tool counters and
// durations. The outcome label follows the result envelope, not a Go error:
// the invoker always returns an envelope.
type InvokerWrapper struct {
	inner   tools.CallInvoker
	metrics *Metrics
}

func NewInvokerWrapper(inner tools.CallInvoker, metrics *Metrics) *InvokerWrapper {
	return &InvokerWrapper{inner: inner, metrics: metrics}
}

func (w *InvokerWrapper) Invoke(ctx context.Context, name string, args json.RawMessage) *tools.Result {
	start := time.Now()
	result := w.inner.Invoke(ctx, name, args)

	status := "success"
	if result.IsError {
		status = "error"
	}
	w.metrics.RecordToolCall(name, status, time.Since(start))

	return result
}
