package opts

import (
	"fmt"
	"strconv"

	"github.com/imchaeyun/wallet-options/pkg/state"
)

// Kind is the semantic type of an option.
type Kind = state.Kind

const (
	KindBool   = state.KindBool
	KindInt    = state.KindInt
	KindString = state.KindString
)

// Value is a tagged union holding one option value. The zero Value is
// invalid and never stored in the model.
type Value struct {
	kind Kind
	b    bool
	i    int
	s    string
}

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int returns an integer Value.
func Int(v int) Value { return Value{kind: KindInt, i: v} }

// String returns a string Value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// ValueOf wraps a Go value. Only bool, the signed and unsigned integer types
// and string are accepted; anything else reports ok=false.
func ValueOf(v any) (Value, bool) {
	switch typed := v.(type) {
	case Value:
		return typed, typed.Valid()
	case bool:
		return Bool(typed), true
	case int:
		return Int(typed), true
	case int8:
		return Int(int(typed)), true
	case int16:
		return Int(int(typed)), true
	case int32:
		return Int(int(typed)), true
	case int64:
		return Int(int(typed)), true
	case uint8:
		return Int(int(typed)), true
	case uint16:
		return Int(int(typed)), true
	case uint32:
		return Int(int(typed)), true
	case string:
		return String(typed), true
	default:
		return Value{}, false
	}
}

// Kind reports the type tag.
func (v Value) Kind() Kind { return v.kind }

// Valid reports whether v carries a value.
func (v Value) Valid() bool {
	return v.kind == KindBool || v.kind == KindInt || v.kind == KindString
}

// AsBool returns the boolean payload; false for non-bool values.
func (v Value) AsBool() bool { return v.kind == KindBool && v.b }

// AsInt returns the integer payload; 0 for non-int values.
func (v Value) AsInt() int {
	if v.kind != KindInt {
		return 0
	}
	return v.i
}

// AsString returns the string payload; "" for non-string values.
func (v Value) AsString() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// Interface returns the payload as bool, int or string.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindString:
		return v.s
	default:
		return nil
	}
}

// Equal reports whether both values share kind and payload.
func (v Value) Equal(other Value) bool {
	return v == other
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.Itoa(v.i)
	case KindString:
		return v.s
	default:
		return "<invalid>"
	}
}

// GoString implements fmt.GoStringer for readable test failures.
func (v Value) GoString() string {
	if !v.Valid() {
		return "opts.Value{}"
	}
	return fmt.Sprintf("opts.%s(%#v)", kindConstructor(v.kind), v.Interface())
}

func kindConstructor(k Kind) string {
	switch k {
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	default:
		return "String"
	}
}

// valueFromStore wraps a coerced store value.
func valueFromStore(kind Kind, raw any) (Value, bool) {
	coerced, ok := state.Coerce(kind, raw)
	if !ok {
		return Value{}, false
	}
	value, ok := ValueOf(coerced)
	if !ok || value.kind != kind {
		return Value{}, false
	}
	return value, true
}
