package ir

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
	loggerMu   sync.Mutex
)

// Logger returns the package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		loggerMu.Lock()
		defer loggerMu.Unlock()
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger installs a logger for warnings and debug traces. Truncation
// warnings, invalid-goto warnings and the alpha/visitor traces all go
// through it.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// DebugAlpha enables trace output from the alpha-conversion table.
var DebugAlpha = false

// DebugVisit enables trace output from the visitor engine.
var DebugVisit = false

func debugf(enabled bool, format string, args ...any) {
	if enabled {
		Logger().Sugar().Debugf(format, args...)
	}
}
