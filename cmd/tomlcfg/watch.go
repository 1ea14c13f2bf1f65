// FILE: lixenwraith/tomlcfg/cmd/tomlcfg/watch.go
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/tomlcfg"
)

func newWatchCmd(a *app) *cobra.Command {
	t := &target{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever the root override file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			r, err := a.newResolver()
			if err != nil {
				return err
			}
			defer r.Close()

			regenerate := func(ctx context.Context) (*tomlcfg.Generated, error) {
				gen, err := a.generate(ctx, r, t)
				if err != nil {
					return nil, err
				}
				res, err := tomlcfg.WriteGenerated(t.outputPath(), gen.Source)
				if err != nil {
					return nil, err
				}
				a.logger.Info("Regenerated configuration", "output", t.outputPath(), "result", res.String())
				return gen, nil
			}

			gen, err := regenerate(ctx)
			if err != nil {
				return err
			}

			elig := gen.Resolution.Eligibility
			if !elig.Eligible {
				return errors.New("root module location is unknown, nothing to watch")
			}

			w, err := tomlcfg.NewWatcher(elig.OverridePath, tomlcfg.WatchOptions{
				Debounce: a.v.GetDuration("debounce"),
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "watching %s\n", w.Path())
			return w.Run(ctx, func(ctx context.Context) error {
				_, err := regenerate(ctx)
				return err
			})
		},
	}

	t.addFlags(cmd.Flags())
	cmd.Flags().Duration("debounce", tomlcfg.DefaultDebounce, "delay before regenerating after a change")
	a.bindFlags(cmd.Flags(), "debounce")
	return cmd
}
