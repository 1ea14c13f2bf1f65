// File: lixenwraith/tomlcfg/convenience.go
package tomlcfg

import (
	"context"
	"fmt"
)

// Quick resolves a struct of defaults for the package in dir with a single call.
// The closure is discovered with DefaultDiscoveryOptions.
func Quick(ctx context.Context, namespace string, structDefaults any, dir string) (*Resolved, error) {
	schema, err := SchemaFromStruct(namespace, structDefaults)
	if err != nil {
		return nil, fmt.Errorf("failed to register defaults: %w", err)
	}

	unit, err := DiscoverUnit(dir)
	if err != nil {
		return nil, err
	}
	unit.Namespace = namespace

	closure, err := DiscoverClosure(DefaultDiscoveryOptions())
	if err != nil {
		return nil, err
	}

	r, err := NewResolver()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	res, err := r.Resolve(ctx, schema, unit, closure)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// MustQuick is like Quick but panics on error
func MustQuick(ctx context.Context, namespace string, structDefaults any, dir string) *Resolved {
	cfg, err := Quick(ctx, namespace, structDefaults, dir)
	if err != nil {
		panic(fmt.Sprintf("tomlcfg resolution failed: %v", err))
	}
	return cfg
}

// GenerateOptions describes one package whose declaration is resolved and emitted.
type GenerateOptions struct {
	// Dir is the package directory holding the declaration
	Dir string
	// TypeName is the declaring struct type
	TypeName string
	// Namespace overrides the package name as namespace
	Namespace string
	// Closure is the build closure; nil discovers it with Discovery
	Closure   *Closure
	Discovery DiscoveryOptions

	// Emission tweaks, see EmitOptions
	ValueName   string
	ConstPrefix string
	NoConsts    bool
}

// Generated is the output of one generate run.
type Generated struct {
	Declaration *Declaration
	Resolution  *Resolution
	Source      []byte
}

// Generate declares, resolves and emits one package.
func (r *Resolver) Generate(ctx context.Context, opts GenerateOptions) (*Generated, error) {
	decl, err := DeclareFromSource(opts.Dir, opts.TypeName, opts.Namespace)
	if err != nil {
		return nil, err
	}

	unit, err := DiscoverUnit(opts.Dir)
	if err != nil {
		// A package outside any module can still be resolved against defaults
		r.logger.Debug("Package has no module, treating location as unknown", "dir", opts.Dir, "error", err)
		unit = Unit{}
	}
	unit.Namespace = decl.Schema.Namespace()

	var closure Closure
	if opts.Closure != nil {
		closure = *opts.Closure
	} else {
		closure, err = DiscoverClosure(opts.Discovery)
		if err != nil {
			return nil, err
		}
	}

	res, err := r.Resolve(ctx, decl.Schema, unit, closure)
	if err != nil {
		return nil, err
	}

	emitOpts := decl.EmitOptions()
	emitOpts.ValueName = opts.ValueName
	emitOpts.ConstPrefix = opts.ConstPrefix
	emitOpts.NoConsts = opts.NoConsts
	src, err := EmitResolution(res, emitOpts)
	if err != nil {
		return nil, err
	}

	return &Generated{Declaration: decl, Resolution: res, Source: src}, nil
}
