// FILE: lixenwraith/tomlcfg/cmd/tomlcfg/generate.go
package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lixenwraith/tomlcfg"
)

// target identifies the declaring package and how its output is emitted
type target struct {
	dir       string
	typeName  string
	namespace string
	output    string
	prefix    string
	value     string
	noConsts  bool
}

func (t *target) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&t.dir, "dir", ".", "package directory holding the declaration")
	fs.StringVar(&t.typeName, "type", "", "struct type declaring the configuration (required)")
	fs.StringVar(&t.namespace, "namespace", "", "namespace in the override file (default: package name)")
	fs.StringVar(&t.output, "output", "", "generated file (default: <type>_gen.go in the package directory)")
	fs.StringVar(&t.prefix, "prefix", "", "prefix for emitted constant names")
	fs.StringVar(&t.value, "value", "", "name of the emitted value (default: type name in SHOUTY_SNAKE)")
	fs.BoolVar(&t.noConsts, "no-consts", false, "emit only the value, with literals inlined")
}

// outputPath returns where the generated file goes
func (t *target) outputPath() string {
	if t.output != "" {
		if filepath.IsAbs(t.output) {
			return t.output
		}
		return filepath.Join(t.dir, t.output)
	}
	return filepath.Join(t.dir, strings.ToLower(t.typeName)+"_gen.go")
}

// generate declares, resolves and emits the target
func (a *app) generate(ctx context.Context, r *tomlcfg.Resolver, t *target) (*tomlcfg.Generated, error) {
	if t.typeName == "" {
		return nil, fmt.Errorf("--type is required")
	}

	return r.Generate(ctx, tomlcfg.GenerateOptions{
		Dir:         t.dir,
		TypeName:    t.typeName,
		Namespace:   t.namespace,
		Discovery:   a.discovery(),
		ValueName:   t.value,
		ConstPrefix: t.prefix,
		NoConsts:    t.noConsts,
	})
}

func newGenerateCmd(a *app) *cobra.Command {
	t := &target{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the resolved configuration of a package as Go source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.newResolver()
			if err != nil {
				return err
			}
			defer r.Close()

			gen, err := a.generate(cmd.Context(), r, t)
			if err != nil {
				return err
			}

			path := t.outputPath()
			res, err := tomlcfg.WriteGenerated(path, gen.Source)
			if err != nil {
				return err
			}

			a.logger.Info("Generated configuration",
				"namespace", gen.Declaration.Schema.Namespace(),
				"output", path,
				"result", res.String(),
				"override", gen.Resolution.Found)
			return nil
		},
	}

	t.addFlags(cmd.Flags())
	return cmd
}
