// FILE: lixenwraith/tomlcfg/cmd/tomlcfg/main_test.go
package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const declaration = "package libone\n\ntype Config struct {\n" +
	"\tBufferSize int `toml:\"buffer_size\" default:\"32\"`\n" +
	"\tGreeting string `toml:\"greeting\" default:\"hello\"`\n" +
	"}\n"

// layout creates an application module and a library module side by side
func layout(t *testing.T) (appDir, libDir string) {
	t.Helper()
	tmpDir := t.TempDir()
	appDir = filepath.Join(tmpDir, "application")
	libDir = filepath.Join(tmpDir, "lib-one")

	for dir, mod := range map[string]string{appDir: "example.com/application", libDir: "example.com/lib-one"} {
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module "+mod+"\n"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(libDir, "config.go"), []byte(declaration), 0644))
	return appDir, libDir
}

// run executes the CLI with args and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestGenerateCommand(t *testing.T) {
	t.Setenv("TOMLCFG", "")
	t.Setenv("TOMLCFG_ROOT", "")
	appDir, libDir := layout(t)
	require.NoError(t, os.WriteFile(filepath.Join(appDir, "cfg.toml"), []byte("[lib-one]\nbuffer_size = 4096\n"), 0644))

	args := []string{"--dir", libDir, "--type", "Config", "--namespace", "lib-one", "--root", appDir}

	_, err := run(t, append([]string{"generate"}, args...)...)
	require.NoError(t, err)

	src, err := os.ReadFile(filepath.Join(libDir, "config_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "// Code generated by tomlcfg. DO NOT EDIT.")
	assert.Regexp(t, `BufferSize\s+int\s+= 4096`, string(src))

	t.Run("CheckCurrent", func(t *testing.T) {
		_, err := run(t, append([]string{"check"}, args...)...)
		assert.NoError(t, err)
	})

	t.Run("CheckStale", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(appDir, "cfg.toml"), []byte("[lib-one]\nbuffer_size = 8\n"), 0644))
		_, err := run(t, append([]string{"check"}, args...)...)
		assert.ErrorIs(t, err, errStale)
	})

	t.Run("Show", func(t *testing.T) {
		out, err := run(t, append([]string{"show"}, args...)...)
		require.NoError(t, err)
		assert.Contains(t, out, "# override: ")
		assert.Contains(t, out, "[lib-one]")
		assert.Contains(t, out, "buffer_size = 8")
		assert.Contains(t, out, `greeting = "hello"`)

		out, err = run(t, append([]string{"show", "--source"}, args...)...)
		require.NoError(t, err)
		assert.Contains(t, out, "package libone")
	})

	t.Run("MissingType", func(t *testing.T) {
		_, err := run(t, "generate", "--dir", libDir)
		assert.ErrorContains(t, err, "--type is required")
	})
}

func TestRequirePresent(t *testing.T) {
	t.Setenv("TOMLCFG_ROOT", "")
	appDir, libDir := layout(t)
	args := []string{"show", "--dir", libDir, "--type", "Config", "--namespace", "lib-one", "--root", appDir}

	t.Run("Flag", func(t *testing.T) {
		t.Setenv("TOMLCFG", "")
		_, err := run(t, append(args, "--require")...)
		assert.ErrorContains(t, err, "override file required")
	})

	t.Run("EnvMode", func(t *testing.T) {
		t.Setenv("TOMLCFG", "require_cfg_present")
		_, err := run(t, args...)
		assert.ErrorContains(t, err, "override file required")
	})

	t.Run("DefaultsWithoutFile", func(t *testing.T) {
		t.Setenv("TOMLCFG", "")
		out, err := run(t, args...)
		require.NoError(t, err)
		assert.Contains(t, out, "declared defaults")
		assert.Contains(t, out, "buffer_size = 32")
	})
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "--log-level", "loud", "show", "--type", "Config")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestBindFlags(t *testing.T) {
	a := &app{v: viper.New()}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("file", "cfg.toml", "")

	a.bindFlags(fs, "file", "missing")
	require.Len(t, a.bindErrs, 1)
	assert.ErrorContains(t, a.bindErrs[0], "--missing")

	assert.Equal(t, "cfg.toml", a.v.GetString("file"))
	require.NoError(t, fs.Set("file", "other.toml"))
	assert.Equal(t, "other.toml", a.v.GetString("file"))
}

func TestFileFromEnv(t *testing.T) {
	t.Setenv("TOMLCFG", "")
	t.Setenv("TOMLCFG_ROOT", "")
	t.Setenv("TOMLCFG_FILE", "custom.toml")
	appDir, libDir := layout(t)
	require.NoError(t, os.WriteFile(filepath.Join(appDir, "custom.toml"), []byte("[lib-one]\nbuffer_size = 7\n"), 0644))

	out, err := run(t, "show", "--dir", libDir, "--type", "Config", "--namespace", "lib-one", "--root", appDir)
	require.NoError(t, err)
	assert.Contains(t, out, "custom.toml")
	assert.Contains(t, out, "buffer_size = 7")
}
