package warp

import (
	"log/slog"
	"sync/atomic"
)

// activeLogger holds the logger shared by the whole module. It is read
// on every warp, so it is stored atomically rather than behind a mutex.
var activeLogger atomic.Pointer[slog.Logger]

func init() {
	activeLogger.Store(slog.New(slog.DiscardHandler))
}

// SetLogger configures logging for warp and its sub-packages. The
// default logger discards everything; pass nil to restore it. Safe to
// call concurrently with running warps.
//
// Levels used:
//   - [slog.LevelDebug]: per-call diagnostics (field dimensions, worker
//     counts, accelerator declines)
//   - [slog.LevelInfo]: lifecycle events (GPU adapter selected)
//   - [slog.LevelWarn]: non-fatal issues (GPU failure with CPU fallback,
//     resource release errors)
//
// Example:
//
//	warp.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	activeLogger.Store(l)

	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	if a != nil {
		propagateLogger(a, l)
	}
}

// Logger returns the current logger. Sub-packages (gpu/, internal/gpu)
// call this to share the configuration without an import cycle.
func Logger() *slog.Logger {
	return activeLogger.Load()
}

// loggerSetter is implemented by accelerators that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger hands the logger to an accelerator that wants one.
// Runs on SetLogger and again on RegisterAccelerator, so a late-registered
// accelerator still picks up the current configuration.
func propagateLogger(a GPUAccelerator, l *slog.Logger) {
	if ls, ok := a.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
