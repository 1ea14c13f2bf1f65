// FILE: lixenwraith/tomlcfg/authority_test.go
package tomlcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorityResolve(t *testing.T) {
	a := NewAuthority("")
	assert.Equal(t, DefaultFileName, a.FileName())

	app := Unit{Namespace: "application", ManifestDir: "/work/application"}
	libOne := Unit{Namespace: "lib-one", ManifestDir: "/work/lib-one"}

	t.Run("StandaloneIsOwnRoot", func(t *testing.T) {
		e := a.Resolve(libOne, Standalone())
		assert.True(t, e.Eligible)
		assert.True(t, e.IsRoot)
		assert.Equal(t, libOne, e.Root)
		assert.Equal(t, filepath.Join("/work/lib-one", "cfg.toml"), e.OverridePath)
	})

	t.Run("DependencyUsesRootFile", func(t *testing.T) {
		e := a.Resolve(libOne, UnderRoot(app))
		assert.True(t, e.Eligible)
		assert.False(t, e.IsRoot)
		assert.Equal(t, app, e.Root)
		assert.Equal(t, filepath.Join("/work/application", "cfg.toml"), e.OverridePath)
	})

	t.Run("RootCompilingItself", func(t *testing.T) {
		e := a.Resolve(app, UnderRoot(app))
		assert.True(t, e.IsRoot)
		assert.Equal(t, filepath.Join("/work/application", "cfg.toml"), e.OverridePath)
	})

	t.Run("PackageInsideRootModule", func(t *testing.T) {
		pkg := Unit{Namespace: "server", ManifestDir: "/work/application/"}
		e := a.Resolve(pkg, UnderRoot(app))
		assert.True(t, e.IsRoot, "packages of the root module share its root status")
	})

	t.Run("UnknownLocation", func(t *testing.T) {
		e := a.Resolve(Unit{Namespace: "lib-one"}, Standalone())
		assert.False(t, e.Eligible)
		assert.True(t, e.IsRoot)
		assert.Empty(t, e.OverridePath)

		e = a.Resolve(libOne, UnderRoot(Unit{Namespace: "application"}))
		assert.False(t, e.Eligible, "a root with unknown location yields defaults only")
	})

	t.Run("CustomFileName", func(t *testing.T) {
		e := NewAuthority("cfg.yaml").Resolve(libOne, UnderRoot(app))
		assert.Equal(t, filepath.Join("/work/application", "cfg.yaml"), e.OverridePath)
	})
}

func TestFindRoot(t *testing.T) {
	tmpDir := t.TempDir()
	root := filepath.Join(tmpDir, "application")
	deep := filepath.Join(root, "internal", "server")
	require.NoError(t, os.MkdirAll(deep, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/application\n"), 0644))

	t.Run("WalksUp", func(t *testing.T) {
		got, err := FindRoot(deep)
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})

	t.Run("Self", func(t *testing.T) {
		got, err := FindRoot(root)
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})

	t.Run("DirectoryNamedGoMod", func(t *testing.T) {
		other := filepath.Join(tmpDir, "other")
		require.NoError(t, os.MkdirAll(filepath.Join(other, "go.mod"), 0755))

		got, err := FindRoot(other)
		if err == nil {
			// Some ancestor of the temp dir may hold a real go.mod
			assert.NotEqual(t, other, got)
		} else {
			assert.ErrorIs(t, err, ErrRootNotFound)
		}
	})
}
