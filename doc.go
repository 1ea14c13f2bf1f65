// File: lixenwraith/tomlcfg/doc.go

// Package tomlcfg resolves build-time configuration constants for Go packages.
//
// A package declares a flat set of typed fields with defaults. The application
// at the root of the build, identified by its go.mod, may place a cfg.toml next
// to that go.mod with one table per namespace overriding any of those defaults.
// Resolved values are emitted as ordinary Go source by the tomlcfg generator, so
// they are compile-time constants with no runtime lookup.
//
// Features:
//   - Four declarable kinds: int, float, bool and string
//   - Strict literal kinds: an integer literal never satisfies a float field
//   - Root authority: dependencies never read their own cfg.toml
//   - Unknown namespaces and fields in the override file are ignored
//   - Override files are parsed once per build invocation and shared
//   - Output is deterministic for the same declaration and override file
//
// Declaring a namespace:
//
//	//go:generate go run github.com/lixenwraith/tomlcfg/cmd/tomlcfg generate -type Config
//
//	type Config struct {
//	    BufferSize int    `toml:"buffer_size" default:"32"`
//	    Greeting   string `toml:"greeting" default:"hello"`
//	}
//
// The root application overrides it in cfg.toml:
//
//	[mylib]
//	buffer_size = 4096
//
// and the generator writes config_gen.go:
//
//	const (
//	    BufferSize int    = 4096 // buffer_size overridden
//	    Greeting   string = "hello"
//	)
//
//	var CONFIG = Config{BufferSize: BufferSize, Greeting: Greeting}
//
// Programmatic use:
//
//	schema := tomlcfg.MustSchema("mylib",
//	    tomlcfg.Field{Name: "buffer_size", Kind: tomlcfg.KindInt, Default: tomlcfg.Int(32)},
//	)
//	r, _ := tomlcfg.NewResolver()
//	defer r.Close()
//	res, err := r.Resolve(ctx, schema, unit, tomlcfg.UnderRoot(root))
//
// Thread Safety:
// Schemas, tables and resolved values are immutable. A Resolver and its
// TableCache may be shared by concurrent resolutions.
package tomlcfg
