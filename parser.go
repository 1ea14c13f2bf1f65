// FILE: lixenwraith/tomlcfg/parser.go
package tomlcfg

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// RawValue is an override value as written in the file.
// It keeps the literal kind so it can be checked against a declared kind.
type RawValue struct {
	kind     Kind
	typeName string // TOML type name of the literal ("Integer", "String", "Array", ...)
	value    any
}

// Kind returns the scalar kind of the literal, or KindInvalid for arrays, tables and datetimes.
func (r RawValue) Kind() Kind { return r.kind }

// TypeName returns the type name of the literal as reported by the parser.
func (r RawValue) TypeName() string { return r.typeName }

// Interface returns the decoded literal.
func (r RawValue) Interface() any { return r.value }

// Value converts a scalar literal into a Value.
func (r RawValue) Value() (Value, bool) {
	switch v := r.value.(type) {
	case int64:
		return Int(v), r.kind == KindInt
	case float64:
		return Float(v), r.kind == KindFloat
	case bool:
		return Bool(v), r.kind == KindBool
	case string:
		return String(v), r.kind == KindString
	}
	return Value{}, false
}

// String renders the literal close to how it was written.
func (r RawValue) String() string {
	if v, ok := r.Value(); ok {
		return v.String()
	}
	return fmt.Sprintf("%v", r.value)
}

// rawFromAny classifies a decoded literal
func rawFromAny(v any, typeName string) RawValue {
	r := RawValue{typeName: typeName, value: v}
	switch t := v.(type) {
	case int64:
		r.kind = KindInt
	case int:
		r.kind, r.value = KindInt, int64(t)
	case float64:
		r.kind = KindFloat
	case bool:
		r.kind = KindBool
	case string:
		r.kind = KindString
	}
	if r.typeName == "" {
		r.typeName = goTypeName(v)
	}
	return r
}

// goTypeName names a decoded value using TOML vocabulary
func goTypeName(v any) string {
	switch v.(type) {
	case int, int64:
		return "Integer"
	case float64:
		return "Float"
	case bool:
		return "Bool"
	case string:
		return "String"
	case []any:
		return "Array"
	case map[string]any:
		return "Hash"
	case time.Time:
		return "Datetime"
	case nil:
		return "Null"
	}
	return fmt.Sprintf("%T", v)
}

// Section is the override mapping of one namespace.
// A nil *Section behaves as an empty section.
type Section struct {
	namespace string
	values    map[string]RawValue
}

// Namespace returns the namespace the section overrides.
func (s *Section) Namespace() string {
	if s == nil {
		return ""
	}
	return s.namespace
}

// Get returns the raw override for a field.
func (s *Section) Get(field string) (RawValue, bool) {
	if s == nil {
		return RawValue{}, false
	}
	v, ok := s.values[field]
	return v, ok
}

// Len returns the number of fields in the section.
func (s *Section) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Keys returns the section's field names, sorted.
func (s *Section) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Table is a parsed override file: one Section per namespace.
// A Table is read-only after parsing and safe for concurrent use.
type Table struct {
	path     string
	digest   string
	sections map[string]*Section
}

// Path returns the file (or display name) the table was parsed from.
func (t *Table) Path() string {
	if t == nil {
		return ""
	}
	return t.path
}

// Digest returns the hex SHA-256 of the parsed content.
func (t *Table) Digest() string {
	if t == nil {
		return ""
	}
	return t.digest
}

// Section returns the override section for a namespace.
func (t *Table) Section(namespace string) (*Section, bool) {
	if t == nil {
		return nil, false
	}
	s, ok := t.sections[namespace]
	return s, ok
}

// Namespaces returns the namespaces present in the file, sorted.
func (t *Table) Namespaces() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.sections))
	for ns := range t.sections {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// ParseTable parses TOML override text. name is used in error messages.
func ParseTable(name string, data []byte) (*Table, error) {
	raw := make(map[string]any)
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, tomlSyntaxError(name, err)
	}

	return buildTable(name, data, raw, func(keys ...string) string {
		return md.Type(keys...)
	})
}

// ParseYAML parses YAML override text with the same table-of-tables shape.
func ParseYAML(name string, data []byte) (*Table, error) {
	raw := make(map[string]any)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, yamlSyntaxError(name, err)
	}

	return buildTable(name, data, raw, nil)
}

// ParseFile reads and parses an override file, choosing the syntax by extension.
// A missing file is reported with an error matching os.ErrNotExist.
func ParseFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read override file '%s': %w", path, err)
	}
	return parseBytes(path, data)
}

// parseBytes dispatches on the detected file format
func parseBytes(path string, data []byte) (*Table, error) {
	switch detectFileFormat(path) {
	case "yaml":
		return ParseYAML(path, data)
	default:
		return ParseTable(path, data)
	}
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

// buildTable validates the table-of-tables shape and classifies every literal
func buildTable(name string, data []byte, raw map[string]any, typeOf func(keys ...string) string) (*Table, error) {
	sum := sha256.Sum256(data)
	t := &Table{
		path:     name,
		digest:   hex.EncodeToString(sum[:]),
		sections: make(map[string]*Section, len(raw)),
	}

	// Sorted so the first reported shape error is stable
	namespaces := make([]string, 0, len(raw))
	for ns := range raw {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)

	for _, ns := range namespaces {
		// A YAML key with no body is an empty section
		if raw[ns] == nil {
			t.sections[ns] = &Section{namespace: ns, values: map[string]RawValue{}}
			continue
		}
		fields, ok := raw[ns].(map[string]any)
		if !ok {
			return nil, &SyntaxError{
				Path: name,
				Msg:  fmt.Sprintf("top-level key %q must be a table of field values, found %s", ns, goTypeName(raw[ns])),
			}
		}

		sec := &Section{namespace: ns, values: make(map[string]RawValue, len(fields))}
		for field, v := range fields {
			typeName := ""
			if typeOf != nil {
				typeName = typeOf(ns, field)
			}
			sec.values[field] = rawFromAny(v, typeName)
		}
		t.sections[ns] = sec
	}

	return t, nil
}

// tomlSyntaxError converts a BurntSushi parse error into a SyntaxError
func tomlSyntaxError(name string, err error) *SyntaxError {
	var perr toml.ParseError
	if errors.As(err, &perr) {
		msg := perr.Message
		if msg == "" {
			msg = perr.Error()
		}
		return &SyntaxError{Path: name, Line: perr.Position.Line, Column: perr.Position.Col, Msg: msg}
	}
	return &SyntaxError{Path: name, Msg: err.Error()}
}

var yamlLineRe = regexp.MustCompile(`line (\d+):`)

// yamlSyntaxError extracts the line number yaml.v3 embeds in its messages
func yamlSyntaxError(name string, err error) *SyntaxError {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	se := &SyntaxError{Path: name, Msg: msg}
	if m := yamlLineRe.FindStringSubmatch(msg); m != nil {
		se.Line, _ = strconv.Atoi(m[1])
	}
	return se
}
