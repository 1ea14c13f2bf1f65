// FILE: lixenwraith/tomlcfg/example/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lixenwraith/tomlcfg"
)

// LibOne is the declaration of the lib-one namespace.
type LibOne struct {
	BufferSize int     `toml:"buffer_size"`
	Ratio      float64 `toml:"ratio"`
	Greeting   string  `toml:"greeting"`
}

// LibTwo is the declaration of the lib-two namespace.
type LibTwo struct {
	Retries int  `toml:"retries"`
	Verbose bool `toml:"verbose"`
}

func main() {
	// =========================================================================
	// PART 1: WORKSPACE
	// Two libraries and an application, each its own module. lib-one ships a
	// cfg.toml of its own, which only applies when lib-one is built standalone.
	// =========================================================================
	base, err := os.MkdirTemp("", "tomlcfg-example-")
	if err != nil {
		log.Fatalf("failed to create workspace: %v", err)
	}
	defer os.RemoveAll(base)

	units := map[string]tomlcfg.Unit{}
	for _, name := range []string{"lib-one", "lib-two", "application"} {
		dir := filepath.Join(base, name)
		mustWrite(filepath.Join(dir, "go.mod"), "module example.com/"+name+"\n")
		units[name] = tomlcfg.Unit{Namespace: name, ManifestDir: dir}
	}

	mustWrite(filepath.Join(units["lib-one"].ManifestDir, "cfg.toml"), `
[lib-one]
buffer_size = 1
`)
	mustWrite(filepath.Join(units["application"].ManifestDir, "cfg.toml"), `
[lib-one]
buffer_size = 4096
greeting = "hi from the application"

[lib-two]
verbose = true

[not-a-dependency]
ignored = "unknown namespaces are inert"
`)

	// =========================================================================
	// PART 2: SCHEMAS
	// =========================================================================
	libOne, err := tomlcfg.SchemaFromStruct("lib-one", LibOne{BufferSize: 32, Ratio: 0.5, Greeting: "hello"})
	if err != nil {
		log.Fatalf("lib-one schema: %v", err)
	}
	libTwo, err := tomlcfg.SchemaFromStruct("lib-two", LibTwo{Retries: 3})
	if err != nil {
		log.Fatalf("lib-two schema: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r, err := tomlcfg.NewResolverBuilder().WithLogger(logger).Build()
	if err != nil {
		log.Fatalf("resolver: %v", err)
	}
	defer r.Close()

	ctx := context.Background()

	// =========================================================================
	// PART 3: BUILDING THE APPLICATION
	// Every dependency resolves against the application's cfg.toml.
	// =========================================================================
	fmt.Println("--- built under application ---")
	results, err := r.ResolveAll(ctx, tomlcfg.UnderRoot(units["application"]), []tomlcfg.Request{
		{Schema: libOne, Unit: units["lib-one"]},
		{Schema: libTwo, Unit: units["lib-two"]},
	})
	if err != nil {
		log.Fatalf("resolve: %v", err)
	}
	for _, res := range results {
		if err := res.Config.Dump(os.Stdout); err != nil {
			log.Fatalf("dump: %v", err)
		}
	}

	var cfg LibOne
	if err := results[0].Config.Decode(&cfg); err != nil {
		log.Fatalf("decode: %v", err)
	}
	fmt.Printf("decoded lib-one: %+v\n", cfg)

	// =========================================================================
	// PART 4: BUILDING LIB-ONE STANDALONE
	// lib-one is its own root and reads its own cfg.toml.
	// =========================================================================
	fmt.Println("\n--- lib-one standalone ---")
	res, err := r.Resolve(ctx, libOne, units["lib-one"], tomlcfg.Standalone())
	if err != nil {
		log.Fatalf("resolve: %v", err)
	}
	n, _ := res.Config.Int64("buffer_size")
	fmt.Printf("buffer_size = %d (from %s)\n", n, res.Eligibility.OverridePath)

	// =========================================================================
	// PART 5: EMISSION
	// =========================================================================
	fmt.Println("\n--- emitted Go source for lib-one under application ---")
	src, err := tomlcfg.EmitResolution(results[0], tomlcfg.EmitOptions{
		Package:  "libone",
		TypeName: "LibOne",
		GoTypes:  map[string]string{"buffer_size": "int"},
	})
	if err != nil {
		log.Fatalf("emit: %v", err)
	}
	os.Stdout.Write(src)

	// =========================================================================
	// PART 6: A TYPE MISMATCH
	// =========================================================================
	fmt.Println("\n--- type mismatch ---")
	mustWrite(filepath.Join(units["application"].ManifestDir, "cfg.toml"), `
[lib-one]
ratio = 2
`)
	if _, err := r.Resolve(ctx, libOne, units["lib-one"], tomlcfg.UnderRoot(units["application"])); err != nil {
		fmt.Println("rejected:", err)
	}
}

func mustWrite(path, content string) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}
}
