//go:build !nogpu

package gpu

import (
	"log/slog"
	"sync/atomic"
)

// activeLogger is the package logger, discard by default. The root
// package propagates its logger here through WarpAccelerator.SetLogger.
var activeLogger atomic.Pointer[slog.Logger]

func init() {
	activeLogger.Store(slog.New(slog.DiscardHandler))
}

// slogger returns the current package logger.
func slogger() *slog.Logger { return activeLogger.Load() }

// setLogger swaps the package logger; nil restores the discard logger.
func setLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	activeLogger.Store(l)
}
