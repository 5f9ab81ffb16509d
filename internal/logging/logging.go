// Package logging sets up the process-wide structured logger. Every actor
// and server in this module logs through zap, matching the rest of the
// pack's ambient-logging conventions rather than the stdlib log package.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	defaultLogger *zap.Logger
	once          sync.Once
)

// Init builds the process-wide logger. debug selects the development
// encoder (colorized, caller-annotated); otherwise the production JSON
// encoder is used. Safe to call once; subsequent calls are no-ops.
func Init(debug bool) error {
	var err error
	once.Do(func() {
		var cfg zap.Config
		if debug {
			cfg = zap.NewDevelopmentConfig()
		} else {
			cfg = zap.NewProductionConfig()
		}
		defaultLogger, err = cfg.Build()
	})
	return err
}

// L returns the process-wide logger, falling back to zap.NewNop() if Init
// was never called (e.g. in tests that don't care about log output).
func L() *zap.Logger {
	if defaultLogger == nil {
		return zap.NewNop()
	}
	return defaultLogger
}

// Named returns a child logger scoped to component, e.g. logging.Named("peer-worker").
func Named(component string) *zap.Logger {
	return L().Named(component)
}

// Sync flushes any buffered log entries. Call before process exit.
func Sync() {
	if defaultLogger != nil {
		_ = defaultLogger.Sync()
	}
}
