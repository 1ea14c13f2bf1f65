// FILE: lixenwraith/tomlcfg/schema.go
package tomlcfg

import (
	"fmt"
	"reflect"
	"strings"
)

// Field is one declared configuration value: a name, a kind and a default.
type Field struct {
	Name    string
	Kind    Kind
	Default Value
}

// NewField creates a Field whose kind is taken from the Go type of defaultValue.
func NewField(name string, defaultValue any) (Field, error) {
	v, err := ValueOf(defaultValue)
	if err != nil {
		return Field{}, fmt.Errorf("field %q: %w", name, err)
	}
	return Field{Name: name, Kind: v.Kind(), Default: v}, nil
}

// Schema is the ordered set of fields a namespace declares.
// A Schema is immutable once created.
type Schema struct {
	namespace string
	fields    []Field
	index     map[string]int
}

// NewSchema validates and freezes a namespace's field list.
// Field order is preserved and drives the order of resolved output.
func NewSchema(namespace string, fields ...Field) (*Schema, error) {
	if namespace == "" {
		return nil, fmt.Errorf("%w: namespace cannot be empty", ErrInvalidSchema)
	}
	if !isValidKeySegment(namespace) {
		return nil, schemaError(namespace, "namespace must be a TOML bare key (A-Za-z0-9_-)")
	}

	s := &Schema{
		namespace: namespace,
		fields:    make([]Field, 0, len(fields)),
		index:     make(map[string]int, len(fields)),
	}

	var errs []string
	for _, f := range fields {
		switch {
		case !isValidKeySegment(f.Name):
			errs = append(errs, fmt.Sprintf("invalid field name %q", f.Name))
		case f.Kind == KindInvalid:
			errs = append(errs, fmt.Sprintf("field %q has no declared kind", f.Name))
		case f.Default.Kind() != f.Kind:
			errs = append(errs, fmt.Sprintf("field %q declared %s but default %s is %s",
				f.Name, f.Kind, f.Default, f.Default.Kind()))
		default:
			if _, dup := s.index[f.Name]; dup {
				errs = append(errs, fmt.Sprintf("duplicate field %q", f.Name))
				continue
			}
			s.index[f.Name] = len(s.fields)
			s.fields = append(s.fields, f)
		}
	}

	if len(errs) > 0 {
		return nil, schemaError(namespace, "%s", strings.Join(errs, "; "))
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(namespace string, fields ...Field) *Schema {
	s, err := NewSchema(namespace, fields...)
	if err != nil {
		panic(fmt.Sprintf("tomlcfg: %v", err))
	}
	return s
}

// Namespace returns the namespace the schema belongs to.
func (s *Schema) Namespace() string { return s.namespace }

// Len returns the number of declared fields.
func (s *Schema) Len() int { return len(s.fields) }

// Fields returns a copy of the declared fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a declared field by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// SchemaFromStruct derives a schema from a struct holding default values.
// Field names come from the `toml` tag, falling back to the snake_case Go field name.
// Fields tagged `toml:"-"` and unexported fields are skipped. Nested structs are
// rejected because a namespace is a flat mapping.
func SchemaFromStruct(namespace string, structWithDefaults any) (*Schema, error) {
	v := reflect.ValueOf(structWithDefaults)

	// Handle pointer or direct struct value
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("%w: SchemaFromStruct requires a non-nil struct pointer or value", ErrInvalidSchema)
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: SchemaFromStruct requires a struct or struct pointer, got %T", ErrInvalidSchema, structWithDefaults)
	}

	t := v.Type()
	var fields []Field
	var errors []string

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		key, skip := tomlKey(field)
		if skip {
			continue
		}

		f, err := NewField(key, v.Field(i).Interface())
		if err != nil {
			errors = append(errors, fmt.Sprintf("field %s: %v", field.Name, err))
			continue
		}
		fields = append(fields, f)
	}

	if len(errors) > 0 {
		return nil, schemaError(namespace, "failed to register %d field(s): %s", len(errors), strings.Join(errors, "; "))
	}

	return NewSchema(namespace, fields...)
}

// tomlKey returns the configuration key for a struct field, and whether to skip it
func tomlKey(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("toml")
	if tag == "-" {
		return "", true
	}

	if tag != "" {
		parts := strings.Split(tag, ",")
		if parts[0] != "" {
			return parts[0], false
		}
	}
	return toSnake(field.Name), false
}
