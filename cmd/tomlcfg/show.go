// FILE: lixenwraith/tomlcfg/cmd/tomlcfg/show.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	t := &target{}
	var source bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration of a package",
		Long: `Print the resolved configuration of a package as a TOML table.
With --source, print the Go source that generate would write instead.`,
		Args: cobra.NoArgs,
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

			out := cmd.OutOrStdout()
			if source {
				_, err := out.Write(gen.Source)
				return err
			}

			res := gen.Resolution
			if res.Found {
				fmt.Fprintf(out, "# override: %s\n", res.Table.Path())
			} else {
				fmt.Fprintln(out, "# override: none, declared defaults")
			}
			return res.Config.Dump(out)
		},
	}

	t.addFlags(cmd.Flags())
	cmd.Flags().BoolVar(&source, "source", false, "print generated Go source")
	return cmd
}
