package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"
)

// ValidationError reports a single argument that failed validation, naming
// the offending field and the reason. Missing distinguishes an absent
// required field from a present-but-malformed value.
type ValidationError struct {
	Field   string
	Reason  string
	Missing bool
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("argument %q: %s", e.Field, e.Reason)
}

func newMissingError(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "required field is missing", Missing: true}
}

func newValueError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Validate checks a raw argument bag against the schema and returns the
// validated bag with declared defaults applied for omitted optional fields.
// Fields not present in the schema are ignored. Validate is a pure function
// of its inputs.
func Validate(s *jsonschema.Schema, raw json.RawMessage) (map[string]any, *ValidationError) {
	args := make(map[string]any)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, &ValidationError{Reason: "arguments must be a JSON object"}
		}
	}

	validated := make(map[string]any, len(args))
	if s.Properties == nil {
		return validated, nil
	}

	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		name, prop := pair.Key, pair.Value

		value, present := args[name]
		if !present {
			if prop.Default != nil {
				validated[name] = prop.Default
				continue
			}
			if slices.Contains(s.Required, name) {
				return nil, newMissingError(name)
			}
			continue
		}

		checked, err := checkValue(name, prop, value)
		if err != nil {
			return nil, err
		}
		validated[name] = checked
	}

	return validated, nil
}

// Decode validates raw arguments and unmarshals the validated bag into the
// typed parameter struct pointed to by out.
func Decode(s *jsonschema.Schema, raw json.RawMessage, out any) *ValidationError {
	bag, verr := Validate(s, raw)
	if verr != nil {
		return verr
	}
	buf, err := json.Marshal(bag)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("encoding validated arguments: %v", err)}
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("decoding validated arguments: %v", err)}
	}
	return nil
}

func checkValue(name string, prop *jsonschema.Schema, value any) (any, *ValidationError) {
	switch prop.Type {
	case "string":
		str, ok := value.(string)
		if !ok {
			return nil, newValueError(name, fmt.Sprintf("expected a string, got %s", jsonTypeOf(value)))
		}
		if err := checkEnum(name, prop, str); err != nil {
			return nil, err
		}
		return str, nil

	case "integer":
		num, ok := value.(float64)
		if !ok {
			return nil, newValueError(name, fmt.Sprintf("expected an integer, got %s", jsonTypeOf(value)))
		}
		if num != math.Trunc(num) {
			return nil, newValueError(name, "expected an integer, got a fractional number")
		}
		if err := checkBounds(name, prop, num); err != nil {
			return nil, err
		}
		return int64(num), nil

	case "number":
		num, ok := value.(float64)
		if !ok {
			return nil, newValueError(name, fmt.Sprintf("expected a number, got %s", jsonTypeOf(value)))
		}
		if err := checkBounds(name, prop, num); err != nil {
			return nil, err
		}
		return num, nil

	case "boolean":
		b, ok := value.(bool)
		if !ok {
			return nil, newValueError(name, fmt.Sprintf("expected a boolean, got %s", jsonTypeOf(value)))
		}
		return b, nil

	default:
		// Arrays and objects pass through; per-element constraints are not
		// declared by any current tool.
		return value, nil
	}
}

// checkBounds enforces inclusive numeric bounds declared on the field.
func checkBounds(name string, prop *jsonschema.Schema, num float64) *ValidationError {
	if prop.Minimum != "" {
		min, err := prop.Minimum.Float64()
		if err == nil && num < min {
			return newValueError(name, fmt.Sprintf("value %v is below the minimum of %s", num, prop.Minimum))
		}
	}
	if prop.Maximum != "" {
		max, err := prop.Maximum.Float64()
		if err == nil && num > max {
			return newValueError(name, fmt.Sprintf("value %v is above the maximum of %s", num, prop.Maximum))
		}
	}
	return nil
}

// checkEnum enforces membership in a declared fixed value set.
func checkEnum(name string, prop *jsonschema.Schema, str string) *ValidationError {
	if len(prop.Enum) == 0 {
		return nil
	}
	allowed := make([]string, 0, len(prop.Enum))
	for _, e := range prop.Enum {
		s, ok := e.(string)
		if !ok {
			continue
		}
		if s == str {
			return nil
		}
		allowed = append(allowed, s)
	}
	return newValueError(name, fmt.Sprintf("value %q is not one of the allowed values: %s", str, strings.Join(allowed, ", ")))
}

func jsonTypeOf(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
