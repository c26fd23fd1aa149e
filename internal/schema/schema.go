// Package schema derives machine-checkable input schemas from tool parameter
// structs and validates raw argument bags against them before a handler runs.
package schema

import (
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"
)

var (
	cache   = make(map[reflect.Type]*jsonschema.Schema)
	cacheMu sync.RWMutex
)

// Reflect builds a flat JSON Schema for the given parameter struct type.
// Nested definitions are inlined so the result is a single object schema
// suitable for capability discovery. Results are cached per type.
func Reflect(t reflect.Type) *jsonschema.Schema {
	cacheMu.RLock()
	s, ok := cache[t]
	cacheMu.RUnlock()
	if ok {
		return s
	}

	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
		// Unknown argument fields are ignored rather than rejected, so the
		// advertised schema must not claim additionalProperties: false.
		AllowAdditionalProperties: true,
	}
	s = r.ReflectFromType(t)
	s.Version = ""

	cacheMu.Lock()
	cache[t] = s
	cacheMu.Unlock()

	return s
}

// ReflectFor is a convenience wrapper for Reflect over a value's type.
func ReflectFor[T any]() *jsonschema.Schema {
	var zero T
	return Reflect(reflect.TypeOf(zero))
}
