// FILE: lixenwraith/tomlcfg/cmd/tomlcfg/check.go
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/tomlcfg"
)

// errStale is returned when a generated file no longer matches its inputs
var errStale = errors.New("generated file is stale")

func newCheckCmd(a *app) *cobra.Command {
	t := &target{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Fail if a generated file does not match the current override file",
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
			ok, err := tomlcfg.CheckGenerated(path, gen.Source)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s (run tomlcfg generate)", errStale, path)
			}

			a.logger.Info("Generated configuration is current", "output", path)
			return nil
		},
	}

	t.addFlags(cmd.Flags())
	return cmd
}
