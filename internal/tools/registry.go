package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Handler executes one tool call. The arguments it receives have already
// passed schema validation with defaults applied; a handler never sees
// unvalidated input.
type Handler func(ctx context.Context, args json.RawMessage) (*Result, error)

// Descriptor describes a callable tool for capability discovery.
type Descriptor struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

type entry struct {
	descriptor Descriptor
	handler    Handler
}

// Registry is the process-wide table of callable tools. It is populated by
// sequential registration at startup and read-only once serving begins, so
// lookups on the request path need no locking.
type Registry struct {
	byName map[string]*entry
	order  []*entry
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*entry),
	}
}

// Register adds a tool to the registry. A duplicate name is a configuration
// bug: the error is returned for the caller to treat as fatal at startup.
func (r *Registry) Register(desc Descriptor, handler Handler) error {
	if desc.Name == "" {
		return fmt.Errorf("tool descriptor has no name")
	}
	if handler == nil {
		return fmt.Errorf("tool %q has no handler", desc.Name)
	}
	if _, exists := r.byName[desc.Name]; exists {
		return fmt.Errorf("duplicate tool name: %s", desc.Name)
	}

	e := &entry{descriptor: desc, handler: handler}
	r.byName[desc.Name] = e
	r.order = append(r.order, e)
	return nil
}

// Lookup returns the descriptor and handler for a tool name.
func (r *Registry) Lookup(name string) (*Descriptor, Handler, bool) {
	e, ok := r.byName[name]
	if !ok {
		return nil, nil, false
	}
	return &e.descriptor, e.handler, true
}

// List returns all descriptors in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.order))
	for i, e := range r.order {
		out[i] = e.descriptor
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}
