// logging.go provides the package-level diagnostic logger. The decoder core
// never logs on the per-packet hot path (spec §5); this exists strictly for
// the rare, non-fatal conditions the original Symphonia source flags with
// log::debug!/log::warn! (e.g. leftover bits after the setup header).

package vorbis

import (
	"log/slog"
	"sync/atomic"
)

var pkgLogger atomic.Pointer[slog.Logger]

// SetLogger replaces the package-level diagnostic logger. Passing nil
// restores slog.Default().
func SetLogger(l *slog.Logger) {
	pkgLogger.Store(l)
}

func logger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}
