// Package value implements the engine's tagged-variant value tree:
// VariableValue (runtime values) and ComponentProperty (static component
// properties, which additionally admit an Expression variant). Both are
// deeply immutable and structurally comparable, following the same
// closed-sum-plus-exhaustive-switch style streamy uses for its pipeline
// step/result variants.
package value

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies which variant a Value holds.
type Kind string

const (
	KindString Kind = "STRING"
	KindNumber Kind = "NUMBER"
	KindBool   Kind = "BOOLEAN"
	KindNull   Kind = "NULL"
	KindObject Kind = "OBJECT"
	KindArray  Kind = "ARRAY"
	// KindExpression only ever appears on a ComponentProperty.
	KindExpression Kind = "EXPRESSION"
)

// member is a single key/value pair in an Object, kept in insertion order.
// Order is preserved for deterministic re-serialization but is not part of
// value equality (the spec calls insertion order "not observable").
type member struct {
	Name  string
	Value Value
}

// Value is the tagged variant shared by VariableValue and ComponentProperty.
// The zero Value is the Null variant.
type Value struct {
	kind    Kind
	str     string
	num     float64
	boolean bool
	object  []member
	array   []Value
}

// VariableValue is the runtime value type threaded through ExecutionContext.
// It is an alias of Value restricted (by construction, not by the type
// system) to the non-Expression variants.
type VariableValue = Value

// ComponentProperty is the static property type attached to a Component;
// it additionally admits Expression.
type ComponentProperty = Value

// Null is the shared Null value.
var Null = Value{kind: KindNull}

func String(s string) Value { return Value{kind: KindString, str: s} }
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value      { return Value{kind: KindBool, boolean: b} }

// Expression constructs a ComponentProperty Expression variant carrying the
// raw (unevaluated) expression text, e.g. "${steps.build.result}".
func Expression(text string) Value { return Value{kind: KindExpression, str: text} }

// Object constructs an ordered-mapping value from name/value pairs, in the
// order given. Later duplicate names overwrite earlier ones but keep the
// earlier position, matching typical JSON-object decode behavior.
func Object(pairs ...ObjectEntry) Value {
	v := Value{kind: KindObject}
	for _, p := range pairs {
		v = v.WithMember(p.Name, p.Value)
	}
	return v
}

// ObjectEntry is one name/value pair passed to Object.
type ObjectEntry struct {
	Name  string
	Value Value
}

// Entry is a convenience constructor for ObjectEntry.
func Entry(name string, v Value) ObjectEntry { return ObjectEntry{Name: name, Value: v} }

// Array constructs an ordered-sequence value.
func Array(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindArray, array: cp}
}

// WithMember returns a copy of v (which must be Object or Null) with name
// bound to val, preserving v's immutability.
func (v Value) WithMember(name string, val Value) Value {
	next := Value{kind: KindObject}
	found := false
	next.object = make([]member, 0, len(v.object)+1)
	for _, m := range v.object {
		if m.Name == name {
			next.object = append(next.object, member{Name: name, Value: val})
			found = true
			continue
		}
		next.object = append(next.object, m)
	}
	if !found {
		next.object = append(next.object, member{Name: name, Value: val})
	}
	return next
}

func (v Value) Kind() Kind {
	if v.kind == "" {
		return KindNull
	}
	return v.kind
}

func (v Value) IsNull() bool       { return v.Kind() == KindNull }
func (v Value) IsString() bool     { return v.kind == KindString }
func (v Value) IsNumber() bool     { return v.kind == KindNumber }
func (v Value) IsBool() bool       { return v.kind == KindBool }
func (v Value) IsObject() bool     { return v.kind == KindObject }
func (v Value) IsArray() bool      { return v.kind == KindArray }
func (v Value) IsExpression() bool { return v.kind == KindExpression }

// StringValue returns the string payload and whether v is a String or
// Expression (Expression carries its raw text in the same slot).
func (v Value) StringValue() (string, bool) {
	if v.kind == KindString || v.kind == KindExpression {
		return v.str, true
	}
	return "", false
}

func (v Value) NumberValue() (float64, bool) {
	if v.kind == KindNumber {
		return v.num, true
	}
	return 0, false
}

func (v Value) BoolValue() (bool, bool) {
	if v.kind == KindBool {
		return v.boolean, true
	}
	return false, false
}

// Member looks up a name on an Object value.
func (v Value) Member(name string) (Value, bool) {
	for _, m := range v.object {
		if m.Name == name {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Members returns the Object's entries in insertion order. The returned
// slice is a defensive copy.
func (v Value) Members() []ObjectEntry {
	out := make([]ObjectEntry, 0, len(v.object))
	for _, m := range v.object {
		out = append(out, ObjectEntry{Name: m.Name, Value: m.Value})
	}
	return out
}

// Items returns an Array's elements. The returned slice is a defensive copy.
func (v Value) Items() []Value {
	out := make([]Value, len(v.array))
	copy(out, v.array)
	return out
}

// Equal reports structural equality: same kind, same payload, Object
// equality is insensitive to member order, Array equality is order-sensitive.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindString, KindExpression:
		return a.str == b.str
	case KindNumber:
		return a.num == b.num
	case KindBool:
		return a.boolean == b.boolean
	case KindArray:
		if len(a.array) != len(b.array) {
			return false
		}
		for i := range a.array {
			if !Equal(a.array[i], b.array[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.object) != len(b.object) {
			return false
		}
		for _, am := range a.object {
			bv, ok := b.Member(am.Name)
			if !ok || !Equal(am.Value, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MarshalJSON renders the value as plain JSON, discarding variant tags:
// Expression marshals as its raw string text, matching the wire document's
// "strings prefixed by ${ or {{ denote expressions" convention.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull, Kind(""):
		return []byte("null"), nil
	case KindString, KindExpression:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.boolean)
	case KindArray:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.array {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindObject:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, m := range v.object {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(m.Name)
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			b, err := m.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("value: unknown kind %q", v.kind)
	}
}

// UnmarshalJSON decodes a plain JSON literal into the corresponding
// non-Expression variant. Expression detection (the "${" / "{{" prefix
// rule) is a loader-level concern applied to raw strings before they reach
// this type; see internal/loader.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	decoded, err := fromInterface(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func fromInterface(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("value: invalid number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case float64:
		return Number(t), nil
	case []interface{}:
		items := make([]Value, 0, len(t))
		for _, elem := range t {
			v, err := fromInterface(elem)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Array(items...), nil
	case map[string]interface{}:
		obj := Value{kind: KindObject}
		for k, elem := range t {
			v, err := fromInterface(elem)
			if err != nil {
				return Value{}, err
			}
			obj = obj.WithMember(k, v)
		}
		return obj, nil
	default:
		return Value{}, fmt.Errorf("value: unsupported JSON type %T", raw)
	}
}

var (
	_ json.Marshaler   = Value{}
	_ json.Unmarshaler = (*Value)(nil)
)
