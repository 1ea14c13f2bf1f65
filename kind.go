// FILE: lixenwraith/tomlcfg/kind.go
package tomlcfg

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Kind is the declared type of a configuration field.
// Only the four scalar kinds below can be declared.
type Kind int

const (
	// KindInvalid marks a zero Value or a raw value of an unsupported TOML type
	KindInvalid Kind = iota
	// KindInt is a signed 64-bit integer
	KindInt
	// KindFloat is a 64-bit floating point number
	KindFloat
	// KindBool is a boolean
	KindBool
	// KindString is a string
	KindString
)

// String returns the lower-case kind name used in schema declarations and errors.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// GoType returns the Go type used when emitting a field of this kind
// without a more specific declared Go type.
func (k Kind) GoType() string {
	switch k {
	case KindInt:
		return "int64"
	case KindFloat:
		return "float64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return ""
	}
}

// ParseKind converts a kind name into a Kind.
// Accepts the canonical names and the TOML type names (integer, boolean).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "integer":
		return KindInt, nil
	case "float":
		return KindFloat, nil
	case "bool", "boolean":
		return KindBool, nil
	case "string", "str":
		return KindString, nil
	default:
		return KindInvalid, fmt.Errorf("unknown kind %q", s)
	}
}

// Value is an immutable scalar of one of the declarable kinds.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
}

// Int returns an integer Value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a floating point Value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// String returns a string Value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// ValueOf converts a native Go scalar into a Value.
// Signed and unsigned integers of any width map to KindInt, float32/float64 to KindFloat.
func ValueOf(v any) (Value, error) {
	if v == nil {
		return Value{}, fmt.Errorf("cannot convert nil to a configuration value")
	}
	if val, ok := v.(Value); ok {
		return val, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{}, fmt.Errorf("cannot convert unsigned integer %d (type %T) to int: overflow", u, v)
		}
		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	}

	return Value{}, fmt.Errorf("unsupported configuration value type %T", v)
}

// ParseValue parses the textual form of a value of the given kind.
// Integers accept base prefixes (0x, 0o, 0b); strings are taken verbatim.
func ParseValue(kind Kind, s string) (Value, error) {
	switch kind {
	case KindInt:
		i, err := strconv.ParseInt(strings.ReplaceAll(s, "_", ""), 0, 64)
		if err != nil {
			return Value{}, fmt.Errorf("cannot parse %q as int: %w", s, err)
		}
		return Int(i), nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
		if err != nil {
			return Value{}, fmt.Errorf("cannot parse %q as float: %w", s, err)
		}
		return Float(f), nil
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Value{}, fmt.Errorf("cannot parse %q as bool: %w", s, err)
		}
		return Bool(b), nil
	case KindString:
		return String(s), nil
	}
	return Value{}, fmt.Errorf("cannot parse value of kind %s", kind)
}

// Kind returns the kind of the value. The zero Value has KindInvalid.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether the value holds one of the scalar kinds.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Int64 returns the integer payload and whether the value is an int.
func (v Value) Int64() (int64, bool) { return v.i, v.kind == KindInt }

// Float64 returns the float payload and whether the value is a float.
func (v Value) Float64() (float64, bool) { return v.f, v.kind == KindFloat }

// Bool returns the boolean payload and whether the value is a bool.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Str returns the string payload and whether the value is a string.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Interface returns the payload as int64, float64, bool or string (nil when invalid).
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindString:
		return v.s
	}
	return nil
}

// Equal reports whether two values have the same kind and payload.
// Floats compare bitwise so NaN equals itself, keeping resolution output comparable.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return math.Float64bits(v.f) == math.Float64bits(o.f)
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	}
	return true
}

// GoLiteral returns the value as a Go source literal.
// Non-finite floats have no constant form and return an error.
func (v Value) GoLiteral() (string, error) {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10), nil
	case KindFloat:
		if math.IsInf(v.f, 0) || math.IsNaN(v.f) {
			return "", fmt.Errorf("float value %v has no constant representation", v.f)
		}
		lit := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(lit, ".eEn") {
			lit += ".0"
		}
		return lit, nil
	case KindBool:
		return strconv.FormatBool(v.b), nil
	case KindString:
		return strconv.Quote(v.s), nil
	}
	return "", fmt.Errorf("invalid value has no literal")
}

// String formats the value for logs and error messages. Strings are quoted.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return strconv.Quote(v.s)
	}
	return "<invalid>"
}
