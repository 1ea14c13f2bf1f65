// FILE: lixenwraith/tomlcfg/cache_test.go
package tomlcfg

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableCache(t *testing.T) {
	ctx := context.Background()

	t.Run("ReadsOnce", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.toml")
		require.NoError(t, os.WriteFile(path, []byte("[ns]\nx = 1\n"), 0644))

		cache, err := NewTableCache(0, nil)
		require.NoError(t, err)
		defer cache.Close()

		var wg sync.WaitGroup
		tables := make([]*Table, 32)
		errs := make([]error, len(tables))
		for i := range tables {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				tables[i], errs[i] = cache.Load(ctx, path)
			}(i)
		}
		wg.Wait()

		for i := range tables {
			require.NoError(t, errs[i])
			assert.Same(t, tables[0], tables[i])
		}
		assert.Equal(t, int64(1), cache.Reads())
	})

	t.Run("SmallCapacityKeepsEntries", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.toml")
		require.NoError(t, os.WriteFile(path, []byte("[ns]\nx = 1\n"), 0644))

		for _, capacity := range []int{1, 4, 8} {
			cache, err := NewTableCache(capacity, nil)
			require.NoError(t, err)

			for i := 0; i < 5; i++ {
				_, err := cache.Load(ctx, path)
				require.NoError(t, err)
			}
			assert.Equal(t, int64(1), cache.Reads(), "capacity %d", capacity)
			assert.Equal(t, 1, cache.Len(), "capacity %d", capacity)
			cache.Close()
		}
	})

	t.Run("InvalidatesOnChange", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.toml")
		require.NoError(t, os.WriteFile(path, []byte("[ns]\nx = 1\n"), 0644))

		cache, err := NewTableCache(8, nil)
		require.NoError(t, err)
		defer cache.Close()

		first, err := cache.Load(ctx, path)
		require.NoError(t, err)

		// Different size and a later mtime both change the fingerprint
		require.NoError(t, os.WriteFile(path, []byte("[ns]\nx = 12345\n"), 0644))
		later := time.Now().Add(2 * time.Second)
		require.NoError(t, os.Chtimes(path, later, later))

		second, err := cache.Load(ctx, path)
		require.NoError(t, err)
		assert.NotEqual(t, first.Digest(), second.Digest())
		assert.Equal(t, int64(2), cache.Reads())
	})

	t.Run("ParseErrorsCached", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.toml")
		require.NoError(t, os.WriteFile(path, []byte("[ns\n"), 0644))

		cache, err := NewTableCache(8, nil)
		require.NoError(t, err)
		defer cache.Close()

		_, err = cache.Load(ctx, path)
		assert.ErrorIs(t, err, ErrSyntax)
		_, err = cache.Load(ctx, path)
		assert.ErrorIs(t, err, ErrSyntax)
		assert.Equal(t, int64(1), cache.Reads())
	})

	t.Run("MissingNotCached", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "cfg.toml")

		cache, err := NewTableCache(8, nil)
		require.NoError(t, err)
		defer cache.Close()

		_, err = cache.Load(ctx, path)
		assert.ErrorIs(t, err, fs.ErrNotExist)

		require.NoError(t, os.WriteFile(path, []byte("[ns]\nx = 1\n"), 0644))
		table, err := cache.Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, []string{"ns"}, table.Namespaces())
	})

	t.Run("Directory", func(t *testing.T) {
		cache, err := NewTableCache(8, nil)
		require.NoError(t, err)
		defer cache.Close()

		_, err = cache.Load(ctx, t.TempDir())
		assert.ErrorContains(t, err, "is a directory")
	})

	t.Run("CancelledContext", func(t *testing.T) {
		cache, err := NewTableCache(8, nil)
		require.NoError(t, err)
		defer cache.Close()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err = cache.Load(cctx, "cfg.toml")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
