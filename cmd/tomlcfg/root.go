// FILE: lixenwraith/tomlcfg/cmd/tomlcfg/root.go
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lixenwraith/tomlcfg"
)

// modeRequirePresent in $TOMLCFG makes a missing override file fatal
const modeRequirePresent = "require_cfg_present"

// app carries the settings shared by every subcommand
type app struct {
	v        *viper.Viper
	logger   *slog.Logger
	bindErrs []error
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "tomlcfg",
		Short: "Resolve build-time configuration constants",
		Long: `tomlcfg resolves a package's declared configuration against the cfg.toml
of the root module and emits the result as Go constants.

Run it from go:generate in the declaring package:

  //go:generate go run github.com/lixenwraith/tomlcfg/cmd/tomlcfg generate -type Config`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.Join(a.bindErrs...); err != nil {
				return err
			}
			return a.initLogger(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("file", tomlcfg.DefaultFileName, "override file name next to the root go.mod")
	flags.String("root", "", "root module directory (default: nearest go.mod above the working directory)")
	flags.Bool("require", false, "fail when the root has no override file")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.BoolP("verbose", "v", false, "shorthand for --log-level=debug")

	a.bindFlags(flags, "file", "root", "require", "log-level", "verbose")

	// TOMLCFG_FILE, TOMLCFG_ROOT, TOMLCFG_LOG_LEVEL, ...
	a.v.SetEnvPrefix("TOMLCFG")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindEnv("mode", "TOMLCFG"); err != nil {
		a.bindErrs = append(a.bindErrs, fmt.Errorf("failed to bind TOMLCFG: %w", err))
	}

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newShowCmd(a),
		newCheckCmd(a),
		newWatchCmd(a),
	)
	return rootCmd
}

// bindFlags binds flags to viper keys of the same name.
// Failures surface when the command runs.
func (a *app) bindFlags(fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		if err := a.v.BindPFlag(name, fs.Lookup(name)); err != nil {
			a.bindErrs = append(a.bindErrs, fmt.Errorf("failed to bind flag --%s: %w", name, err))
		}
	}
}

// initLogger installs a text handler on the command's stderr
func (a *app) initLogger(cmd *cobra.Command) error {
	var level slog.Level
	if a.v.GetBool("verbose") {
		level = slog.LevelDebug
	} else if err := level.UnmarshalText([]byte(a.v.GetString("log-level"))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", a.v.GetString("log-level"), err)
	}

	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// requirePresent combines --require with the TOMLCFG=require_cfg_present mode
func (a *app) requirePresent() bool {
	if a.v.GetBool("require") {
		return true
	}
	for _, mode := range strings.Split(a.v.GetString("mode"), ",") {
		if strings.TrimSpace(mode) == modeRequirePresent {
			return true
		}
	}
	return false
}

// newResolver builds a resolver from the shared settings
func (a *app) newResolver() (*tomlcfg.Resolver, error) {
	return tomlcfg.NewResolverBuilder().
		WithFileName(a.v.GetString("file")).
		WithRequirePresent(a.requirePresent()).
		WithLogger(a.logger).
		Build()
}

// discovery returns closure discovery options for the shared settings
func (a *app) discovery() tomlcfg.DiscoveryOptions {
	opts := tomlcfg.DefaultDiscoveryOptions()
	opts.RootDir = a.v.GetString("root")
	// TOMLCFG_ROOT is already folded into the root setting
	opts.EnvVar = ""
	if wd, err := os.Getwd(); err == nil {
		opts.WorkDir = wd
	}
	return opts
}
