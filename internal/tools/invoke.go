package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"odmcp/internal/schema"
)

// CallInvoker resolves and executes one tool call, always producing a
// response envelope. Implemented by Invoker and its telemetry wrapper.
type CallInvoker interface {
	Invoke(ctx context.Context, name string, args json.RawMessage) *Result
}

// Invoker is the boundary between the dispatch loop and tool handlers. Any
// failure a handler raises is caught here, classified, and logged, then
// turned into a failure envelope instead of crashing the dispatcher.
type Invoker struct {
	registry *Registry
	logger   zerolog.Logger
}

// NewInvoker creates an invoker over the given registry.
func NewInvoker(registry *Registry, logger zerolog.Logger) *Invoker {
	return &Invoker{
		registry: registry,
		logger:   logger.With().Str("component", "invoker").Logger(),
	}
}

// Invoke runs one tool call end to end: registry lookup, argument
// validation, handler execution, envelope construction. It returns exactly
// one envelope per call, success or failure.
func (i *Invoker) Invoke(ctx context.Context, name string, args json.RawMessage) *Result {
	desc, handler, ok := i.registry.Lookup(name)
	if !ok {
		err := NewUnknownToolError(name)
		i.logFailure(name, err)
		return NewErrorResult(err)
	}

	validated, verr := schema.Validate(desc.InputSchema, args)
	if verr != nil {
		err := NewValidationError(verr.Error())
		i.logFailure(name, err)
		return NewErrorResult(err)
	}

	buf, err := json.Marshal(validated)
	if err != nil {
		ferr := NewInternalError("encoding validated arguments", err)
		i.logFailure(name, ferr)
		return NewErrorResult(ferr)
	}

	result, callErr := i.call(ctx, handler, buf)
	if callErr != nil {
		classified := classify(callErr)
		i.logFailure(name, classified)
		return NewErrorResult(classified)
	}
	if result == nil {
		ferr := NewInternalError("handler returned no result", nil)
		i.logFailure(name, ferr)
		return NewErrorResult(ferr)
	}

	return result
}

// call runs the handler with a recover barrier so a panicking handler
// surfaces as a classified failure rather than tearing down the dispatcher.
func (i *Invoker) call(ctx context.Context, handler Handler, args json.RawMessage) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = NewInternalError(fmt.Sprintf("handler panic: %v", r), nil)
		}
	}()
	return handler(ctx, args)
}

// classify maps a handler failure onto the stable error taxonomy. Handlers
// and upstream clients return *Error values already tagged with a kind;
// anything else is an internal fault.
func classify(err error) *Error {
	var terr *Error
	if errors.As(err, &terr) {
		return terr
	}
	return NewInternalError(err.Error(), err)
}

func (i *Invoker) logFailure(tool string, err *Error) {
	evt := i.logger.Error().
		Str("tool", tool).
		Str("kind", string(err.Kind)).
		Str("message", err.Message)
	if err.Cause != nil {
		evt = evt.Err(err.Cause)
	}
	evt.Msg("Tool call failed")
}
