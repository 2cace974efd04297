package template

import (
	"log/slog"
	"sync/atomic"
)

var packageLogger atomic.Pointer[slog.Logger]

func init() {
	packageLogger.Store(slog.New(slog.DiscardHandler))
}

// SetLogger replaces the logger used by the package. Nil restores the
// default, which discards everything.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	packageLogger.Store(l)
}

// Logger returns the logger used by the package.
func Logger() *slog.Logger {
	return packageLogger.Load()
}
