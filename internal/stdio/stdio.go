// Package stdio serves the protocol over a duplex byte stream using
// newline-delimited JSON frames, one message per line.
package stdio

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"odmcp/internal/dispatch"
	"odmcp/internal/jsonrpc"
	"odmcp/internal/tools"
)

// maxFrameSize bounds a single inbound frame.
const maxFrameSize = 10 * 1024 * 1024

// FrameRecorder counts protocol frames. Satisfied by telemetry.Metrics.
type FrameRecorder interface {
	RecordFrame(direction, kind string)
}

// nopFrameRecorder is used when no metrics sink is attached.
type nopFrameRecorder struct{}

func (nopFrameRecorder) RecordFrame(direction, kind string) {}

// Server reads frames from in, dispatches them, and writes responses to out.
// Requests run concurrently, so responses may interleave in any order; the
// client correlates them by request ID.
type Server struct {
	in         io.Reader
	out        io.Writer
	dispatcher *dispatch.Dispatcher
	logger     zerolog.Logger
	metrics    FrameRecorder

	writeMu sync.Mutex
	wg      sync.WaitGroup
}

// NewServer creates a stdio server over the given stream pair.
func NewServer(in io.Reader, out io.Writer, dispatcher *dispatch.Dispatcher, logger zerolog.Logger) *Server {
	return &Server{
		in:         in,
		out:        out,
		dispatcher: dispatcher,
		logger:     logger.With().Str("component", "stdio").Logger(),
		metrics:    nopFrameRecorder{},
	}
}

// WithMetrics attaches a frame counter. Call before Serve.
func (s *Server) WithMetrics(m FrameRecorder) *Server {
	s.metrics = m
	return s
}

// Serve reads frames until EOF or context cancellation. A frame that cannot
// be parsed yields an error response and the loop continues; the stream only
// shuts down when the input closes. Before returning, Serve waits for every
// in-flight request so each one still gets its response.
func (s *Server) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 64*1024), maxFrameSize)

	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		// The scanner reuses its buffer across iterations.
		frame := make([]byte, len(line))
		copy(frame, line)

		s.handleFrame(ctx, frame)
	}

	s.wg.Wait()

	if err := scanner.Err(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		return err
	}
	return ctx.Err()
}

func (s *Server) handleFrame(ctx context.Context, frame []byte) {
	msg, rpcErr := jsonrpc.ParseMessage(frame)
	if rpcErr != nil {
		s.metrics.RecordFrame("in", "malformed")
		s.logger.Warn().
			Str("kind", string(tools.KindProtocolFrame)).
			Int("frame_bytes", len(frame)).
			Str("error", rpcErr.Message).
			Msg("Rejected malformed frame")
		s.write(jsonrpc.NewErrorResponse(jsonrpc.SalvageID(frame), rpcErr))
		return
	}

	switch m := msg.(type) {
	case *jsonrpc.Request:
		s.metrics.RecordFrame("in", "request")
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.write(s.dispatcher.Handle(ctx, m))
		}()
	case *jsonrpc.Notification:
		s.metrics.RecordFrame("in", "notification")
		s.dispatcher.HandleNotification(ctx, m)
	}
}

// write serializes one response and emits it as an atomic frame. Concurrent
// request goroutines share the output stream, so frames must never interleave.
func (s *Server) write(resp *jsonrpc.Response) {
	buf, err := jsonrpc.Encode(resp)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
		buf, err = jsonrpc.Encode(jsonrpc.NewErrorResponse(resp.ID, jsonrpc.NewError(
			jsonrpc.InternalError, "Failed to encode response", nil)))
		if err != nil {
			return
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.out.Write(buf); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write response")
		return
	}
	s.metrics.RecordFrame("out", "response")
}
