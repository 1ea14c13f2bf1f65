// FILE: lixenwraith/tomlcfg/timing.go
package tomlcfg

import (
	"io"
	"log/slog"
	"runtime"
	"time"
)

// Core timing and sizing constants.
const (
	// File watching intervals
	MinDebounce     = 10 * time.Millisecond  // Hard floor for change coalescence
	DefaultDebounce = 200 * time.Millisecond // Editor save bursts coalesce within this window

	// DefaultCacheCapacity bounds parsed override files kept per build invocation
	DefaultCacheCapacity = 64
)

// defaultParallelism caps concurrent namespace resolutions in ResolveAll
var defaultParallelism = runtime.GOMAXPROCS(0)

// discardLogger is the logger used when none is configured
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
