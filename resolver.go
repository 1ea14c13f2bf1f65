// File: lixenwraith/tomlcfg/resolver.go
package tomlcfg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Resolution is the outcome of resolving one namespace.
type Resolution struct {
	// Config is the resolved value set handed to emission
	Config *Resolved
	// Eligibility is the authority decision that selected the override file
	Eligibility Eligibility
	// Found reports whether the override file existed and was parsed
	Found bool
	// Table is the parsed override file, nil when none applied
	Table *Table
}

// Request pairs a schema with the unit that declares it, for ResolveAll.
type Request struct {
	Schema *Schema
	Unit   Unit
}

// Resolver runs authority, cached parsing and merge for compiling units.
// A Resolver represents one build invocation; Close discards its cache.
type Resolver struct {
	authority      *Authority
	cache          *TableCache
	ownsCache      bool
	requirePresent bool
	parallelism    int
	logger         *slog.Logger
}

// ResolverBuilder provides a fluent interface for building a Resolver
type ResolverBuilder struct {
	fileName       string
	cache          *TableCache
	capacity       int
	requirePresent bool
	parallelism    int
	logger         *slog.Logger
}

// NewResolverBuilder creates a new resolver builder
func NewResolverBuilder() *ResolverBuilder {
	return &ResolverBuilder{
		fileName:    DefaultFileName,
		capacity:    DefaultCacheCapacity,
		parallelism: defaultParallelism,
	}
}

// WithFileName sets the override file name looked up next to the root manifest
func (b *ResolverBuilder) WithFileName(name string) *ResolverBuilder {
	b.fileName = name
	return b
}

// WithCache shares an existing table cache instead of creating one
func (b *ResolverBuilder) WithCache(cache *TableCache) *ResolverBuilder {
	b.cache = cache
	return b
}

// WithCacheCapacity sets the capacity of the resolver's own cache
func (b *ResolverBuilder) WithCacheCapacity(capacity int) *ResolverBuilder {
	b.capacity = capacity
	return b
}

// WithRequirePresent makes a missing override file fatal for eligible units
func (b *ResolverBuilder) WithRequirePresent(require bool) *ResolverBuilder {
	b.requirePresent = require
	return b
}

// WithParallelism limits concurrent resolutions in ResolveAll
func (b *ResolverBuilder) WithParallelism(n int) *ResolverBuilder {
	b.parallelism = n
	return b
}

// WithLogger sets the structured logger
func (b *ResolverBuilder) WithLogger(logger *slog.Logger) *ResolverBuilder {
	b.logger = logger
	return b
}

// Build creates the Resolver with all specified options
func (b *ResolverBuilder) Build() (*Resolver, error) {
	logger := b.logger
	if logger == nil {
		logger = discardLogger()
	}

	r := &Resolver{
		authority:      NewAuthority(b.fileName),
		cache:          b.cache,
		requirePresent: b.requirePresent,
		parallelism:    b.parallelism,
		logger:         logger,
	}
	if r.parallelism <= 0 {
		r.parallelism = defaultParallelism
	}

	if r.cache == nil {
		cache, err := NewTableCache(b.capacity, logger)
		if err != nil {
			return nil, err
		}
		r.cache = cache
		r.ownsCache = true
	}

	return r, nil
}

// NewResolver creates a Resolver with default options.
func NewResolver() (*Resolver, error) {
	return NewResolverBuilder().Build()
}

// Authority returns the resolver's root authority.
func (r *Resolver) Authority() *Authority { return r.authority }

// Cache returns the resolver's table cache.
func (r *Resolver) Cache() *TableCache { return r.cache }

// Resolve produces the resolved configuration of schema for the compiling unit.
// If current.Namespace is empty the schema namespace is used.
func (r *Resolver) Resolve(ctx context.Context, schema *Schema, current Unit, closure Closure) (*Resolution, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	if current.Namespace == "" {
		current.Namespace = schema.Namespace()
	}

	elig := r.authority.Resolve(current, closure)
	res := &Resolution{Eligibility: elig}
	logger := r.logger.With("namespace", schema.Namespace())

	if !elig.Eligible {
		if r.requirePresent {
			return nil, fmt.Errorf("%w: root module location of namespace %q is unknown", ErrOverrideRequired, schema.Namespace())
		}
		logger.Debug("No root location, using defaults")
		res.Config = Defaults(schema)
		return res, nil
	}

	table, err := r.cache.Load(ctx, elig.OverridePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if r.requirePresent {
			return nil, fmt.Errorf("%w: %s", ErrOverrideRequired, elig.OverridePath)
		}
		logger.Debug("No override file found, using defaults", "path", elig.OverridePath)
		res.Config = Defaults(schema)
		return res, nil
	case err != nil:
		return nil, err
	}

	res.Found = true
	res.Table = table

	section, ok := table.Section(schema.Namespace())
	if !ok {
		if r.requirePresent {
			return nil, fmt.Errorf("%w: no [%s] section in '%s'", ErrOverrideRequired, schema.Namespace(), elig.OverridePath)
		}
		logger.Debug("Override file has no section for namespace", "path", elig.OverridePath)
	}
	for _, key := range section.Keys() {
		if _, declared := schema.Field(key); !declared {
			logger.Debug("Ignoring undeclared override field", "field", key)
		}
	}

	cfg, err := Merge(schema, section)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve namespace %q from '%s': %w", schema.Namespace(), elig.OverridePath, err)
	}
	res.Config = cfg

	logger.Debug("Resolved configuration", "path", elig.OverridePath, "root", elig.Root.Namespace, "fields", schema.Len())
	return res, nil
}

// ResolveAll resolves many namespaces of one closure concurrently.
// Results are returned in request order; the first failure cancels the rest.
func (r *Resolver) ResolveAll(ctx context.Context, closure Closure, reqs []Request) ([]*Resolution, error) {
	out := make([]*Resolution, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			res, err := r.Resolve(gctx, req.Schema, req.Unit, closure)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close discards the cache if the resolver created it.
func (r *Resolver) Close() {
	if r.ownsCache {
		r.cache.Close()
	}
}
