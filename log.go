package stackarray

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	nopLogger = zap.NewNop()
	logger    atomic.Pointer[zap.Logger]
)

// Logger returns the package logger. It is a no-op logger unless SetLogger was called.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nopLogger
}

// SetLogger replaces the package logger. A nil logger restores the no-op logger.
// Only stack growth, release and pool misses are logged, at debug level.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = nopLogger
	}
	logger.Store(l)
}
