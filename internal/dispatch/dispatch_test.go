package dispatch

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"odmcp/internal/jsonrpc"
	"odmcp/internal/schema"
	"odmcp/internal/tools"
)

type greetParams struct {
	Name string `json:"name" jsonschema:"description=Name to greet"`
}

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()

	reg := tools.NewRegistry()
	err := reg.Register(tools.Descriptor{
		Name:        "greet",
		Description: "Greets a caller by name",
		InputSchema: schema.ReflectFor[greetParams](),
	}, func(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
		var p greetParams
		if err := json.Unmarshal(args, &p); err != nil {
			return nil, err
		}
		return tools.NewTextResult("hello " + p.Name), nil
	})
	if err != nil {
		t.Fatalf("Failed to register tool: %v", err)
	}

	invoker := tools.NewInvoker(reg, zerolog.Nop())
	return New(reg, invoker, zerolog.Nop())
}

func request(t *testing.T, id any, method, params string) *jsonrpc.Request {
	t.Helper()
	req := &jsonrpc.Request{JSONRPC: jsonrpc.Version, ID: id, Method: method}
	if params != "" {
		req.Params = json.RawMessage(params)
	}
	return req
}

func TestDispatcher_Initialize(t *testing.T) {
	d := newTestDispatcher(t)

	resp := d.Handle(context.Background(), request(t, 1, MethodInitialize,
		`{"protocolVersion": "2024-11-05", "clientInfo": {"name": "test-client", "version": "1.0"}}`))

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	result, ok := resp.Result.(InitializeResult)
	if !ok {
		t.Fatalf("Expected InitializeResult, got %T", resp.Result)
	}
	if result.ProtocolVersion != ProtocolVersion {
		t.Errorf("Expected protocol version %s, got %s", ProtocolVersion, result.ProtocolVersion)
	}
	if result.ServerInfo.Name != ServerName {
		t.Errorf("Expected server name %s, got %s", ServerName, result.ServerInfo.Name)
	}
}

func TestDispatcher_Ping(t *testing.T) {
	d := newTestDispatcher(t)

	resp := d.Handle(context.Background(), request(t, "ping-1", MethodPing, ""))
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if resp.ID != "ping-1" {
		t.Errorf("Expected id ping-1, got %v", resp.ID)
	}
}

func TestDispatcher_ToolsList(t *testing.T) {
	d := newTestDispatcher(t)

	resp := d.Handle(context.Background(), request(t, 2, MethodToolsList, ""))
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(ListToolsResult)
	if !ok {
		t.Fatalf("Expected ListToolsResult, got %T", resp.Result)
	}
	if len(result.Tools) != 1 || result.Tools[0].Name != "greet" {
		t.Errorf("Expected one greet tool, got %+v", result.Tools)
	}
	if result.Tools[0].InputSchema == nil {
		t.Error("Expected an input schema on the descriptor")
	}
}

func TestDispatcher_ToolsCall(t *testing.T) {
	d := newTestDispatcher(t)

	resp := d.Handle(context.Background(), request(t, 3, MethodToolsCall,
		`{"name": "greet", "arguments": {"name": "world"}}`))
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(*tools.Result)
	if !ok {
		t.Fatalf("Expected *tools.Result, got %T", resp.Result)
	}
	if result.IsError {
		t.Fatalf("Expected success, got %+v", result.Content)
	}
	text := result.Content[0].(tools.TextContent).Text
	if text != "hello world" {
		t.Errorf("Expected greeting, got %q", text)
	}
}

func TestDispatcher_ToolsCallFailuresStayInEnvelope(t *testing.T) {
	d := newTestDispatcher(t)

	tests := []struct {
		name   string
		params string
		want   string
	}{
		{
			name:   "unknown tool",
			params: `{"name": "ghost", "arguments": {}}`,
			want:   "UNKNOWN_TOOL",
		},
		{
			name:   "validation failure",
			params: `{"name": "greet", "arguments": {"name": 42}}`,
			want:   "VALIDATION_ERROR",
		},
		{
			name:   "missing required argument",
			params: `{"name": "greet"}`,
			want:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := d.Handle(context.Background(), request(t, 4, MethodToolsCall, tt.params))
			if resp.Error != nil {
				t.Fatalf("Expected envelope failure, got JSON-RPC error: %v", resp.Error)
			}

			result, ok := resp.Result.(*tools.Result)
			if !ok {
				t.Fatalf("Expected *tools.Result, got %T", resp.Result)
			}
			if !result.IsError {
				t.Fatal("Expected an error envelope")
			}
			text := result.Content[0].(tools.TextContent).Text
			if !strings.HasPrefix(text, tt.want) {
				t.Errorf("Expected %s prefix, got %q", tt.want, text)
			}
		})
	}
}

func TestDispatcher_ToolsCallInvalidParams(t *testing.T) {
	d := newTestDispatcher(t)

	resp := d.Handle(context.Background(), request(t, 5, MethodToolsCall, `{"arguments": {}}`))
	if resp.Error == nil {
		t.Fatal("Expected JSON-RPC error for missing tool name")
	}
	if resp.Error.Code != jsonrpc.InvalidParams {
		t.Errorf("Expected invalid-params code, got %d", resp.Error.Code)
	}
}

func TestDispatcher_MethodNotFound(t *testing.T) {
	d := newTestDispatcher(t)

	resp := d.Handle(context.Background(), request(t, 6, "resources/list", ""))
	if resp.Error == nil {
		t.Fatal("Expected JSON-RPC error for unknown method")
	}
	if resp.Error.Code != jsonrpc.MethodNotFound {
		t.Errorf("Expected method-not-found code, got %d", resp.Error.Code)
	}
	if resp.ID != 6 {
		t.Errorf("Expected id correlation on error, got %v", resp.ID)
	}
}

func TestDispatcher_Notification(t *testing.T) {
	d := newTestDispatcher(t)

	// Must not panic or emit anything.
	d.HandleNotification(context.Background(), &jsonrpc.Notification{
		JSONRPC: jsonrpc.Version,
		Method:  MethodInitialized,
	})
	d.HandleNotification(context.Background(), &jsonrpc.Notification{
		JSONRPC: jsonrpc.Version,
		Method:  "notifications/unknown",
	})
}
