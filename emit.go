// FILE: lixenwraith/tomlcfg/emit.go
package tomlcfg

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"math"
	"path/filepath"
	"text/template"
)

// GeneratedHeader is the first line of every emitted file.
const GeneratedHeader = "// Code generated by tomlcfg. DO NOT EDIT."

// EmitOptions controls how a resolved namespace is rendered as Go source.
type EmitOptions struct {
	// Package is the package clause of the generated file (required)
	Package string
	// TypeName is the declaring struct type; when set a value of that type is emitted
	TypeName string
	// ValueName overrides the emitted value name (default: TypeName in SHOUTY_SNAKE)
	ValueName string
	// ConstPrefix is prepended to every emitted constant name
	ConstPrefix string
	// NoConsts suppresses the constant block
	NoConsts bool
	// GoNames maps field keys to Go identifiers (default: CamelCase of the key)
	GoNames map[string]string
	// GoTypes maps field keys to Go types (default: the kind's Go type)
	GoTypes map[string]string
	// Source and Digest identify the override file in the header, empty for defaults
	Source string
	Digest string
}

type emitField struct {
	Key        string
	Const      string
	GoName     string
	Type       string
	Literal    string
	Ref        string
	Overridden bool
}

type emitData struct {
	Namespace string
	Package   string
	Source    string
	Digest    string
	Consts    bool
	TypeName  string
	ValueName string
	Fields    []emitField
}

var emitTemplate = template.Must(template.New("tomlcfg").Parse(GeneratedHeader + `
// Namespace: {{.Namespace}}
{{- if .Source}}
// Source: {{.Source}} (sha256 {{.Digest}})
{{- else}}
// Source: declared defaults
{{- end}}

package {{.Package}}
{{if .Consts}}
const (
{{- range .Fields}}
	{{.Const}} {{.Type}} = {{.Literal}}{{if .Overridden}} // {{.Key}} overridden{{end}}
{{- end}}
)
{{end}}
{{- if .TypeName}}
// {{.ValueName}} holds the resolved {{.Namespace}} configuration.
var {{.ValueName}} = {{.TypeName}}{
{{- range .Fields}}
	{{.GoName}}: {{.Ref}},
{{- end}}
}
{{end}}`))

// Emit renders cfg as gofmt-formatted Go source.
func Emit(cfg *Resolved, opts EmitOptions) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil resolved configuration", ErrEmit)
	}
	if !token.IsIdentifier(opts.Package) {
		return nil, fmt.Errorf("%w: invalid package name %q", ErrEmit, opts.Package)
	}

	data := emitData{
		Namespace: cfg.Namespace(),
		Package:   opts.Package,
		Source:    opts.Source,
		Digest:    opts.Digest,
		Consts:    !opts.NoConsts,
		TypeName:  opts.TypeName,
		ValueName: opts.ValueName,
	}
	if data.TypeName != "" {
		if !token.IsIdentifier(data.TypeName) {
			return nil, fmt.Errorf("%w: invalid type name %q", ErrEmit, data.TypeName)
		}
		if data.ValueName == "" {
			data.ValueName = toShoutySnake(data.TypeName)
		}
		if !token.IsIdentifier(data.ValueName) {
			return nil, fmt.Errorf("%w: invalid value name %q", ErrEmit, data.ValueName)
		}
	}
	if !data.Consts && data.TypeName == "" {
		return nil, fmt.Errorf("%w: nothing to emit without constants or a type name", ErrEmit)
	}

	for _, key := range cfg.Fields() {
		v, _ := cfg.Get(key)
		f, err := buildEmitField(key, v, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: [%s] %s: %v", ErrEmit, cfg.Namespace(), key, err)
		}
		f.Overridden = cfg.Overridden(key)
		if !data.Consts {
			f.Ref = f.Literal
		}
		data.Fields = append(data.Fields, f)
	}

	var buf bytes.Buffer
	if err := emitTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmit, err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: generated source does not format: %v", ErrEmit, err)
	}
	return src, nil
}

// EmitTo renders cfg and writes it to w.
func EmitTo(w io.Writer, cfg *Resolved, opts EmitOptions) error {
	src, err := Emit(cfg, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(src)
	return err
}

// EmitResolution renders a resolution, filling the header source from its override table.
func EmitResolution(res *Resolution, opts EmitOptions) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("%w: nil resolution", ErrEmit)
	}
	if res.Table != nil && opts.Source == "" {
		opts.Source = sourceName(res)
		opts.Digest = res.Table.Digest()
	}
	return Emit(res.Config, opts)
}

// sourceName returns the override path relative to the root manifest directory,
// so emitted bytes do not depend on the checkout location
func sourceName(res *Resolution) string {
	path := res.Table.Path()
	if rel, err := filepath.Rel(res.Eligibility.Root.ManifestDir, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

// buildEmitField computes names, type and literal of one field
func buildEmitField(key string, v Value, opts EmitOptions) (emitField, error) {
	goName := opts.GoNames[key]
	if goName == "" {
		goName = toCamel(key)
	}
	if !token.IsIdentifier(goName) {
		return emitField{}, fmt.Errorf("invalid Go name %q", goName)
	}

	goType := opts.GoTypes[key]
	if goType == "" {
		goType = v.Kind().GoType()
	}
	if err := checkGoType(v, goType); err != nil {
		return emitField{}, err
	}

	lit, err := v.GoLiteral()
	if err != nil {
		return emitField{}, err
	}

	constName := opts.ConstPrefix + goName
	if !token.IsIdentifier(constName) {
		return emitField{}, fmt.Errorf("invalid constant name %q", constName)
	}

	return emitField{
		Key:     key,
		Const:   constName,
		GoName:  goName,
		Type:    goType,
		Literal: lit,
		Ref:     constName,
	}, nil
}

// intRanges bounds the sized integer types; uint64 is capped by the int64 payload
var intRanges = map[string][2]float64{
	"int8":    {math.MinInt8, math.MaxInt8},
	"int16":   {math.MinInt16, math.MaxInt16},
	"int32":   {math.MinInt32, math.MaxInt32},
	"rune":    {math.MinInt32, math.MaxInt32},
	"int":     {math.MinInt, math.MaxInt},
	"int64":   {math.MinInt64, math.MaxInt64},
	"uint8":   {0, math.MaxUint8},
	"byte":    {0, math.MaxUint8},
	"uint16":  {0, math.MaxUint16},
	"uint32":  {0, math.MaxUint32},
	"uint":    {0, math.MaxInt64},
	"uint64":  {0, math.MaxInt64},
	"uintptr": {0, math.MaxInt64},
}

// checkGoType verifies a value fits a predeclared Go type.
// Named types are accepted as is; the compiler checks their underlying type.
func checkGoType(v Value, goType string) error {
	if r, ok := intRanges[goType]; ok {
		i, isInt := v.Int64()
		if !isInt {
			return fmt.Errorf("%s value %s cannot be emitted as %s", v.Kind(), v, goType)
		}
		if float64(i) < r[0] || float64(i) > r[1] {
			return fmt.Errorf("value %d overflows %s", i, goType)
		}
		return nil
	}

	switch goType {
	case "float32", "float64":
		f, isFloat := v.Float64()
		if !isFloat {
			return fmt.Errorf("%s value %s cannot be emitted as %s", v.Kind(), v, goType)
		}
		if goType == "float32" && !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
			return fmt.Errorf("value %v overflows float32", f)
		}
	case "bool":
		if v.Kind() != KindBool {
			return fmt.Errorf("%s value %s cannot be emitted as bool", v.Kind(), v)
		}
	case "string":
		if v.Kind() != KindString {
			return fmt.Errorf("%s value %s cannot be emitted as string", v.Kind(), v)
		}
	}
	return nil
}
