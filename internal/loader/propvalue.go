package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flowcore/flowcore/pkg/value"
)

// isExpressionText reports whether s should decode as a ComponentProperty
// Expression rather than a plain String, per spec §4.1 step 4: "strings
// starting with ${ or {{ become Expression".
func isExpressionText(s string) bool {
	return strings.HasPrefix(s, "${") || strings.HasPrefix(s, "{{")
}

// decodeProperty converts a raw JSON property value into a ComponentProperty,
// recognizing the Expression convention on strings and recursing through
// objects and arrays.
func decodeProperty(raw json.RawMessage) (value.ComponentProperty, error) {
	if len(raw) == 0 {
		return value.Null, nil
	}
	var generic interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return value.Value{}, err
	}
	return propertyFromInterface(generic)
}

func propertyFromInterface(raw interface{}) (value.ComponentProperty, error) {
	switch t := raw.(type) {
	case nil:
		return value.Null, nil
	case string:
		if isExpressionText(t) {
			return value.Expression(t), nil
		}
		return value.String(t), nil
	case bool:
		return value.Bool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return value.Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return value.Number(f), nil
	case []interface{}:
		items := make([]value.Value, 0, len(t))
		for _, elem := range t {
			v, err := propertyFromInterface(elem)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, v)
		}
		return value.Array(items...), nil
	case map[string]interface{}:
		obj := value.Value{}
		for k, elem := range t {
			v, err := propertyFromInterface(elem)
			if err != nil {
				return value.Value{}, err
			}
			obj = obj.WithMember(k, v)
		}
		return obj, nil
	default:
		return value.Value{}, fmt.Errorf("unsupported property JSON type %T", raw)
	}
}

func decodePropertyMap(raw map[string]json.RawMessage) (map[string]value.ComponentProperty, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]value.ComponentProperty, len(raw))
	for k, v := range raw {
		decoded, err := decodeProperty(v)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}
		out[k] = decoded
	}
	return out, nil
}
