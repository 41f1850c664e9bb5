package components

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// NonSerializable replaces attribute values that cannot be written as JSON.
const NonSerializable = "NON_JSON_SERIALIZABLE_VALUE"

// Value is a parameter attribute: either serializable JSON or an opaque
// marker for a value that could not be serialized. The zero Value is null.
type Value struct {
	raw    json.RawMessage
	opaque bool
}

// Serializable wraps already-encoded JSON.
func Serializable(raw json.RawMessage) Value {
	return Value{raw: append(json.RawMessage(nil), raw...)}
}

// Opaque returns the marker value.
func Opaque() Value {
	return Value{opaque: true}
}

// Capture encodes v as JSON. Anything that fails to encode, including
// NaN, infinities, channels, funcs and panicking marshalers, becomes Opaque.
func Capture(v any) (val Value) {
	defer func() {
		if r := recover(); r != nil {
			val = Opaque()
		}
	}()

	data, err := json.Marshal(v)
	if err != nil {
		return Opaque()
	}
	return Value{raw: data}
}

// IsOpaque reports whether the value was replaced by the marker.
func (v Value) IsOpaque() bool { return v.opaque }

// IsNull reports whether the value is absent or JSON null.
func (v Value) IsNull() bool {
	return !v.opaque && (len(v.raw) == 0 || bytes.Equal(v.raw, []byte("null")))
}

// Raw returns the encoded JSON, or nil for opaque and null values.
func (v Value) Raw() json.RawMessage {
	if v.opaque || v.IsNull() {
		return nil
	}
	return v.raw
}

// Decode unmarshals the value into out.
func (v Value) Decode(out any) error {
	if v.opaque {
		return fmt.Errorf("value is %s", NonSerializable)
	}
	if len(v.raw) == 0 {
		return json.Unmarshal([]byte("null"), out)
	}
	return json.Unmarshal(v.raw, out)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.opaque:
		return json.Marshal(NonSerializable)
	case len(v.raw) == 0:
		return []byte("null"), nil
	default:
		return v.raw, nil
	}
}

// UnmarshalJSON implements json.Unmarshaler. The marker string decodes back
// to an opaque value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil && s == NonSerializable {
		*v = Opaque()
		return nil
	}
	*v = Serializable(data)
	return nil
}

// opaqueLiteral stands in for a runtime object that has no JSON form.
type opaqueLiteral struct {
	repr string
}

func (o opaqueLiteral) MarshalJSON() ([]byte, error) {
	return nil, fmt.Errorf("%s cannot be serialized", o.repr)
}

// Literal is a parameter attribute as declared in a manifest or in Go code,
// before it is captured. In YAML the !opaque tag marks runtime objects such
// as callables or class instances. An omitted attribute and an explicit null
// are the same zero Literal.
type Literal struct {
	v any
}

// LiteralOf wraps a Go value.
func LiteralOf(v any) Literal {
	return Literal{v: v}
}

// OpaqueLiteral declares a value that has no JSON form, described by repr.
func OpaqueLiteral(repr string) Literal {
	return Literal{v: opaqueLiteral{repr: repr}}
}

// Capture converts the literal to a Value.
func (l Literal) Capture() Value {
	if l.v == nil {
		return Value{}
	}
	return Capture(l.v)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Literal) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!opaque" {
		l.v = opaqueLiteral{repr: node.Value}
		return nil
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	l.v = v
	return nil
}
