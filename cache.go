// FILE: lixenwraith/tomlcfg/cache.go
package tomlcfg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/maypok86/otter"
	"golang.org/x/sync/singleflight"
)

// cacheEntry stores a parse outcome; parse failures are cached too since they are permanent
type cacheEntry struct {
	table *Table
	err   error
}

// TableCache holds parsed override files for the lifetime of one build invocation.
// Entries are keyed by absolute path plus a stat fingerprint (modification time and size),
// so an edited file is parsed again while an unchanged one is read exactly once.
// Concurrent loads of the same file share a single read.
type TableCache struct {
	entries otter.Cache[string, cacheEntry]
	group   singleflight.Group
	reads   atomic.Int64
	logger  *slog.Logger
}

// NewTableCache creates a cache holding at least capacity parsed files.
// Capacities below DefaultCacheCapacity are raised to it.
func NewTableCache(capacity int, logger *slog.Logger) (*TableCache, error) {
	// otter admits nothing into very small caches
	capacity = max(capacity, DefaultCacheCapacity)
	if logger == nil {
		logger = discardLogger()
	}

	entries, err := otter.MustBuilder[string, cacheEntry](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create table cache: %w", err)
	}

	return &TableCache{entries: entries, logger: logger}, nil
}

// Load returns the parsed table for path.
// A missing file returns an error matching fs.ErrNotExist and is never cached.
func (c *TableCache) Load(ctx context.Context, path string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve override path '%s': %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to stat override file '%s': %w", abs, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("override path '%s' is a directory", abs)
	}

	key := fmt.Sprintf("%s|%d|%d", abs, info.ModTime().UnixNano(), info.Size())
	if e, ok := c.entries.Get(key); ok {
		c.logger.Debug("Override table cache hit", "path", abs)
		return e.table, e.err
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// Another caller may have filled the entry between Get and DoChan
		if e, ok := c.entries.Get(key); ok {
			return e, nil
		}

		c.reads.Add(1)
		data, err := os.ReadFile(abs)
		if err != nil {
			// Read failures are not cached; the file may be mid-replace
			return cacheEntry{err: fmt.Errorf("failed to read override file '%s': %w", abs, err)}, nil
		}

		table, err := parseBytes(abs, data)
		e := cacheEntry{table: table, err: err}
		c.entries.Set(key, e)
		c.logger.Debug("Parsed override file", "path", abs, "namespaces", len(table.Namespaces()), "error", err)
		return e, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		e := res.Val.(cacheEntry)
		return e.table, e.err
	}
}

// Reads returns how many times a file was actually read from disk.
func (c *TableCache) Reads() int64 { return c.reads.Load() }

// Len returns the number of cached parse outcomes.
func (c *TableCache) Len() int { return c.entries.Size() }

// Close discards every cached table.
func (c *TableCache) Close() {
	c.entries.Clear()
	c.entries.Close()
}
