// FILE: lixenwraith/tomlcfg/io_test.go
package tomlcfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteGenerated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config_gen.go")

	res, err := WriteGenerated(path, []byte("package a\n"))
	require.NoError(t, err)
	assert.Equal(t, WriteCreated, res)

	// Backdate so an unwanted rewrite would be visible
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, old, old))

	res, err = WriteGenerated(path, []byte("package a\n"))
	require.NoError(t, err)
	assert.Equal(t, WriteUnchanged, res)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "unchanged content must not touch the file")

	res, err = WriteGenerated(path, []byte("package b\n"))
	require.NoError(t, err)
	assert.Equal(t, WriteUpdated, res)
	assert.Equal(t, "updated", res.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package b\n", string(data))

	// No temporary files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCheckGenerated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config_gen.go")

	ok, err := CheckGenerated(path, []byte("x"))
	require.NoError(t, err)
	assert.False(t, ok, "missing file is stale")

	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	ok, err = CheckGenerated(path, []byte("x"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckGenerated(path, []byte("y"))
	require.NoError(t, err)
	assert.False(t, ok)
}
