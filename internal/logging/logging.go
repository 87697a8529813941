// Package logging bootstraps the process-wide structured logger, a
// once-initialized singleton per spec.md §5 ("the logging subscriber
// (initialized once)"). Every subsystem pulls a named sub-logger
// ("STORE", "ORCH", "HTTP", ...) off one shared backend.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/decred/slog"
)

var (
	once    sync.Once
	backend *slog.Backend

	mu      sync.Mutex
	loggers []slog.Logger
)

// Init creates the process-wide logging backend. production selects Info
// level (anything but "production" for RUST_ENV selects Debug, per
// spec.md §6, applied via SetLevel); subsequent calls keep the existing
// backend, matching the once-init gate spec.md §9 requires for
// process-wide singletons, and only re-apply the level.
func Init(w io.Writer, production bool) {
	once.Do(func() {
		if w == nil {
			w = os.Stderr
		}
		backend = slog.NewBackend(w)
	})
	SetLevel(production)
}

// Logger returns a named sub-logger (e.g. "ORCH", "STORE", "HTTP"),
// creating a default stderr backend first if Init was never called.
func Logger(subsystem string) slog.Logger {
	if backend == nil {
		Init(os.Stderr, false)
	}
	log := backend.Logger(subsystem)
	mu.Lock()
	log.SetLevel(currentLevel)
	loggers = append(loggers, log)
	mu.Unlock()
	return log
}

var currentLevel = slog.LevelInfo

// SetLevel sets the level of every logger handed out so far and of those
// created later. Init calls it, so package-level loggers created before
// main's Init pick up the production/non-production level too.
func SetLevel(production bool) {
	mu.Lock()
	defer mu.Unlock()
	if production {
		currentLevel = slog.LevelInfo
	} else {
		currentLevel = slog.LevelDebug
	}
	for _, l := range loggers {
		l.SetLevel(currentLevel)
	}
}
