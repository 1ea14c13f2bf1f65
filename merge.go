// FILE: lixenwraith/tomlcfg/merge.go
package tomlcfg

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
)

// Resolved is the final value set of one namespace.
// It has exactly one entry per declared field, in declaration order, and is never mutated.
type Resolved struct {
	namespace  string
	names      []string
	kinds      map[string]Kind
	values     map[string]Value
	overridden map[string]bool
}

// Merge combines a schema with the namespace's override section.
// section may be nil. Section entries the schema does not declare are ignored.
// Any literal-kind mismatch fails the whole namespace; all mismatches are reported.
func Merge(schema *Schema, section *Section) (*Resolved, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}

	r := &Resolved{
		namespace:  schema.namespace,
		names:      make([]string, 0, len(schema.fields)),
		kinds:      make(map[string]Kind, len(schema.fields)),
		values:     make(map[string]Value, len(schema.fields)),
		overridden: make(map[string]bool),
	}

	var mismatches []error
	for _, f := range schema.fields {
		r.names = append(r.names, f.Name)
		r.kinds[f.Name] = f.Kind

		raw, ok := section.Get(f.Name)
		if !ok {
			r.values[f.Name] = f.Default
			continue
		}

		v, ok := raw.Value()
		if !ok || raw.Kind() != f.Kind {
			mismatches = append(mismatches, &TypeMismatchError{
				Namespace: schema.namespace,
				Field:     f.Name,
				Declared:  f.Kind,
				Raw:       raw,
			})
			continue
		}

		r.values[f.Name] = v
		r.overridden[f.Name] = true
	}

	if len(mismatches) > 0 {
		return nil, errors.Join(mismatches...)
	}
	return r, nil
}

// Defaults resolves a schema with no overrides.
func Defaults(schema *Schema) *Resolved {
	r, _ := Merge(schema, nil) // cannot fail without a section
	return r
}

// Namespace returns the resolved namespace.
func (r *Resolved) Namespace() string { return r.namespace }

// Fields returns the field names in declaration order.
func (r *Resolved) Fields() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Get returns the resolved value of a field.
func (r *Resolved) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Overridden reports whether a field's value came from the override file.
func (r *Resolved) Overridden(name string) bool { return r.overridden[name] }

// Int64 retrieves an int field.
func (r *Resolved) Int64(name string) (int64, error) {
	v, err := r.lookup(name, KindInt)
	if err != nil {
		return 0, err
	}
	i, _ := v.Int64()
	return i, nil
}

// Float64 retrieves a float field.
func (r *Resolved) Float64(name string) (float64, error) {
	v, err := r.lookup(name, KindFloat)
	if err != nil {
		return 0, err
	}
	f, _ := v.Float64()
	return f, nil
}

// Bool retrieves a bool field.
func (r *Resolved) Bool(name string) (bool, error) {
	v, err := r.lookup(name, KindBool)
	if err != nil {
		return false, err
	}
	b, _ := v.Bool()
	return b, nil
}

// String retrieves a string field.
func (r *Resolved) String(name string) (string, error) {
	v, err := r.lookup(name, KindString)
	if err != nil {
		return "", err
	}
	s, _ := v.Str()
	return s, nil
}

// lookup fetches a field and checks its kind
func (r *Resolved) lookup(name string, want Kind) (Value, error) {
	v, ok := r.values[name]
	if !ok {
		return Value{}, fmt.Errorf("field not declared in namespace %q: %s", r.namespace, name)
	}
	if v.Kind() != want {
		return Value{}, fmt.Errorf("field %s in namespace %q is %s, not %s", name, r.namespace, v.Kind(), want)
	}
	return v, nil
}

// Map returns the resolved values as a fresh map of native Go values.
func (r *Resolved) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for name, v := range r.values {
		out[name] = v.Interface()
	}
	return out
}

// Equal reports whether two resolutions hold the same namespace, fields and values.
func (r *Resolved) Equal(o *Resolved) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.namespace != o.namespace || len(r.names) != len(o.names) {
		return false
	}
	for i, name := range r.names {
		if o.names[i] != name || !r.values[name].Equal(o.values[name]) {
			return false
		}
	}
	return true
}

// Decode copies the resolved values into a struct or map using `toml` tags.
// The target must be a non-nil pointer.
func (r *Resolved) Decode(target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "toml",
		WeaklyTypedInput: false,
		ErrorUnused:      false,
		ZeroFields:       true,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(r.Map()); err != nil {
		return fmt.Errorf("decode failed for namespace %q: %w", r.namespace, err)
	}
	return nil
}

// Dump writes the resolved values as a TOML table under the namespace key.
func (r *Resolved) Dump(w io.Writer) error {
	nested := map[string]any{r.namespace: r.Map()}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(nested); err != nil {
		return fmt.Errorf("failed to marshal namespace %q to TOML: %w", r.namespace, err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
