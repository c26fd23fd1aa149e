// Package dispatch maps decoded JSON-RPC requests onto protocol operations.
// It is transport-agnostic: the stdio loop and the HTTP endpoint both feed
// frames through the same Dispatcher.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"odmcp/internal/jsonrpc"
	"odmcp/internal/tools"
)

const (
	// ProtocolVersion is the MCP revision this server speaks.
	ProtocolVersion = "2024-11-05"

	ServerName    = "odmcp"
	ServerVersion = "0.1.0"
)

// Method names understood by the dispatcher.
const (
	MethodInitialize  = "initialize"
	MethodPing        = "ping"
	MethodToolsList   = "tools/list"
	MethodToolsCall   = "tools/call"
	MethodInitialized = "notifications/initialized"
)

// InitializeParams are the client's initialize arguments.
type InitializeParams struct {
	ProtocolVersion string     `json:"protocolVersion"`
	ClientInfo      ClientInfo `json:"clientInfo"`
	Capabilities    any        `json:"capabilities,omitempty"`
}

type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult advertises the server identity and capabilities.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

type Capabilities struct {
	Tools ToolsCapability `json:"tools"`
}

type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ListToolsResult carries the registered tool descriptors.
type ListToolsResult struct {
	Tools []tools.Descriptor `json:"tools"`
}

// CallToolParams are the tools/call arguments.
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Dispatcher routes requests to the registry and the tool invoker.
type Dispatcher struct {
	registry *tools.Registry
	invoker  tools.CallInvoker
	logger   zerolog.Logger
}

// New creates a dispatcher over the given registry and invoker.
func New(registry *tools.Registry, invoker tools.CallInvoker, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		invoker:  invoker,
		logger:   logger.With().Str("component", "dispatch").Logger(),
	}
}

// Handle executes one request and returns its response. Every request gets
// exactly one response, correlated by the request ID; tool-level failures
// travel inside the result envelope, not as JSON-RPC errors.
func (d *Dispatcher) Handle(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	d.logger.Debug().
		Str("method", req.Method).
		Interface("id", req.ID).
		Msg("Handling request")

	switch req.Method {
	case MethodInitialize:
		return d.handleInitialize(req)
	case MethodPing:
		return jsonrpc.NewResponse(req.ID, struct{}{})
	case MethodToolsList:
		return jsonrpc.NewResponse(req.ID, ListToolsResult{Tools: d.registry.List()})
	case MethodToolsCall:
		return d.handleToolCall(ctx, req)
	default:
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewError(
			jsonrpc.MethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method),
			nil,
		))
	}
}

// HandleNotification processes a one-way message. No response is produced.
func (d *Dispatcher) HandleNotification(ctx context.Context, n *jsonrpc.Notification) {
	switch n.Method {
	case MethodInitialized:
		d.logger.Info().Msg("Client initialization complete")
	default:
		d.logger.Debug().Str("method", n.Method).Msg("Ignoring notification")
	}
}

func (d *Dispatcher) handleInitialize(req *jsonrpc.Request) *jsonrpc.Response {
	var params InitializeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewError(
				jsonrpc.InvalidParams, "Invalid initialize params", nil))
		}
	}

	d.logger.Info().
		Str("client_name", params.ClientInfo.Name).
		Str("client_version", params.ClientInfo.Version).
		Str("protocol_version", params.ProtocolVersion).
		Msg("Client connected")

	return jsonrpc.NewResponse(req.ID, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    Capabilities{Tools: ToolsCapability{}},
		ServerInfo: ServerInfo{
			Name:    ServerName,
			Version: ServerVersion,
		},
	})
}

func (d *Dispatcher) handleToolCall(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewError(
			jsonrpc.InvalidParams, "Invalid tools/call params: name is required", nil))
	}

	args := params.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	result := d.invoker.Invoke(ctx, params.Name, args)
	return jsonrpc.NewResponse(req.ID, result)
}
