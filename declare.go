// FILE: lixenwraith/tomlcfg/declare.go
package tomlcfg

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Declaration is a schema read from a Go struct declaration, together with
// the Go names and types needed to emit its resolved values.
type Declaration struct {
	Dir      string
	Package  string
	TypeName string
	Schema   *Schema
	GoNames  map[string]string
	GoTypes  map[string]string
}

// EmitOptions returns emission options that reproduce the declaring struct.
func (d *Declaration) EmitOptions() EmitOptions {
	return EmitOptions{
		Package:  d.Package,
		TypeName: d.TypeName,
		GoNames:  d.GoNames,
		GoTypes:  d.GoTypes,
	}
}

// predeclared maps Go scalar types to declarable kinds
var predeclared = map[string]Kind{
	"int": KindInt, "int8": KindInt, "int16": KindInt, "int32": KindInt, "int64": KindInt,
	"uint": KindInt, "uint8": KindInt, "uint16": KindInt, "uint32": KindInt, "uint64": KindInt,
	"uintptr": KindInt, "byte": KindInt, "rune": KindInt,
	"float32": KindFloat, "float64": KindFloat,
	"bool":   KindBool,
	"string": KindString,
}

// DeclareFromSource reads the struct typeName from the non-test Go files in dir.
// Every field must carry a `default:"..."` tag; the key comes from the `toml` tag or
// the snake_case field name. An empty namespace selects the package name.
//
//	type Config struct {
//		BufferSize int    `toml:"buffer_size" default:"32"`
//		Greeting   string `default:"hello"`
//	}
func DeclareFromSource(dir, typeName, namespace string) (*Declaration, error) {
	fset := token.NewFileSet()
	files, pkgName, err := parseDir(fset, dir)
	if err != nil {
		return nil, err
	}

	if namespace == "" {
		namespace = pkgName
	}

	types := collectTypeSpecs(files)
	spec, ok := types[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: type %s not found in package %s (%s)", ErrInvalidSchema, typeName, pkgName, dir)
	}
	st, ok := spec.Type.(*ast.StructType)
	if !ok {
		return nil, fmt.Errorf("%w: type %s is not a struct", ErrInvalidSchema, typeName)
	}

	d := &Declaration{
		Dir:      dir,
		Package:  pkgName,
		TypeName: typeName,
		GoNames:  make(map[string]string),
		GoTypes:  make(map[string]string),
	}

	var fields []Field
	var errs []string
	for _, af := range st.Fields.List {
		if len(af.Names) == 0 {
			errs = append(errs, fmt.Sprintf("%s: embedded fields are not supported", fset.Position(af.Pos())))
			continue
		}

		var tag reflect.StructTag
		if af.Tag != nil {
			raw, err := strconv.Unquote(af.Tag.Value)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: malformed tag", fset.Position(af.Tag.Pos())))
				continue
			}
			tag = reflect.StructTag(raw)
		}

		goType, kind, err := resolveKind(af.Type, types)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", fset.Position(af.Type.Pos()), err))
			continue
		}

		for _, name := range af.Names {
			if !name.IsExported() {
				continue
			}

			key, skip := tomlKey(reflect.StructField{Name: name.Name, Tag: tag})
			if skip {
				continue
			}

			def, ok := tag.Lookup("default")
			if !ok {
				errs = append(errs, fmt.Sprintf("%s: field %s has no default tag", fset.Position(name.Pos()), name.Name))
				continue
			}
			v, err := ParseValue(kind, def)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: field %s: %v", fset.Position(name.Pos()), name.Name, err))
				continue
			}

			fields = append(fields, Field{Name: key, Kind: kind, Default: v})
			d.GoNames[key] = name.Name
			d.GoTypes[key] = goType
		}
	}

	if len(errs) > 0 {
		return nil, schemaError(namespace, "%s", strings.Join(errs, "; "))
	}

	d.Schema, err = NewSchema(namespace, fields...)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// parseDir parses the package's non-test, non-generated Go files
func parseDir(fset *token.FileSet, dir string) ([]*ast.File, string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return nil, "", fmt.Errorf("failed to list Go files in '%s': %w", dir, err)
	}
	sort.Strings(matches)

	var files []*ast.File
	var pkgName string
	for _, path := range matches {
		if strings.HasSuffix(path, "_test.go") {
			continue
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read '%s': %w", path, err)
		}
		f, err := parser.ParseFile(fset, path, src, parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse '%s': %w", path, err)
		}
		if ast.IsGenerated(f) {
			continue
		}
		if pkgName == "" {
			pkgName = f.Name.Name
		} else if f.Name.Name != pkgName {
			return nil, "", fmt.Errorf("multiple packages in '%s': %s and %s", dir, pkgName, f.Name.Name)
		}
		files = append(files, f)
	}

	if len(files) == 0 {
		return nil, "", fmt.Errorf("no Go source files in '%s'", dir)
	}
	return files, pkgName, nil
}

// collectTypeSpecs indexes top-level type declarations by name
func collectTypeSpecs(files []*ast.File) map[string]*ast.TypeSpec {
	types := make(map[string]*ast.TypeSpec)
	for _, f := range files {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, s := range gd.Specs {
				if ts, ok := s.(*ast.TypeSpec); ok {
					types[ts.Name.Name] = ts
				}
			}
		}
	}
	return types
}

// resolveKind maps a field type expression to its Go type name and kind.
// Package-local named types are followed to their underlying scalar.
func resolveKind(expr ast.Expr, types map[string]*ast.TypeSpec) (string, Kind, error) {
	ident, ok := expr.(*ast.Ident)
	if !ok {
		return "", KindInvalid, fmt.Errorf("unsupported field type %T; only scalar types can be declared", expr)
	}

	name := ident.Name
	seen := make(map[string]bool)
	for cur := ident; ; {
		if k, ok := predeclared[cur.Name]; ok {
			return name, k, nil
		}
		ts, ok := types[cur.Name]
		if !ok || seen[cur.Name] {
			return "", KindInvalid, fmt.Errorf("unsupported field type %s", name)
		}
		seen[cur.Name] = true
		next, ok := ts.Type.(*ast.Ident)
		if !ok {
			return "", KindInvalid, fmt.Errorf("type %s is not a scalar", name)
		}
		cur = next
	}
}
