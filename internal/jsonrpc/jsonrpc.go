package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const Version = "2.0"

// Request is an incoming JSON-RPC 2.0 request frame. The ID is the opaque
// correlation token that must be echoed back on the matching response frame.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is an outgoing JSON-RPC 2.0 response frame. Exactly one of Result
// or Error is set.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Notification is a one-way message that carries no ID and expects no response.
type Notification struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type ErrorCode int

const (
	ParseError     ErrorCode = -32700
	InvalidRequest ErrorCode = -32600
	MethodNotFound ErrorCode = -32601
	InvalidParams  ErrorCode = -32602
	InternalError  ErrorCode = -32603
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

func NewError(code ErrorCode, message string, data any) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// NewResponse builds a success response correlated to the given request ID.
func NewResponse(id any, result any) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Result:  result,
	}
}

// NewErrorResponse builds an error response correlated to the given request ID.
func NewErrorResponse(id any, err *Error) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Error:   err,
	}
}

// ParseMessage parses a single frame and returns either a *Request or a
// *Notification. A frame that cannot be decoded, or that is not a valid
// JSON-RPC 2.0 message, yields a *Error; the connection is expected to
// survive such frames.
func ParseMessage(data []byte) (any, *Error) {
	var msg struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      any             `json:"id,omitempty"`
		Method  string          `json:"method,omitempty"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, NewError(ParseError, "Parse error", nil)
	}

	if msg.JSONRPC != Version {
		return nil, NewError(InvalidRequest, "Invalid JSON-RPC version", nil)
	}

	// A method without an ID is a notification.
	if msg.ID == nil && msg.Method != "" {
		return &Notification{
			JSONRPC: msg.JSONRPC,
			Method:  msg.Method,
			Params:  msg.Params,
		}, nil
	}

	if msg.ID != nil && msg.Method != "" {
		return &Request{
			JSONRPC: msg.JSONRPC,
			ID:      msg.ID,
			Method:  msg.Method,
			Params:  msg.Params,
		}, nil
	}

	return nil, NewError(InvalidRequest, "Invalid message", nil)
}

// SalvageID recovers the request ID from a frame that failed full parsing so
// the error response can still correlate. Returns nil when even that fails.
func SalvageID(frame []byte) any {
	var probe struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(frame, &probe); err != nil {
		return nil
	}
	return probe.ID
}

// Encode serializes a response as a single newline-terminated frame.
func Encode(resp *Response) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
