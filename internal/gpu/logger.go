package gpu

import (
	"log/slog"
	"sync/atomic"
)

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(slog.DiscardHandler))
}

// slogger returns the logger for buffer and frame diagnostics.
func slogger() *slog.Logger { return loggerPtr.Load() }

// SetLogger replaces the package logger; nil silences it.
// lines.SetLogger forwards here so all packages share one configuration.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	loggerPtr.Store(l)
}
