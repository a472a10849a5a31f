package cbind

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// The package logger is a no-op unless the host application opts in. It
// only ever carries diagnostics (finalizer reclamations, slot lifecycle),
// never data from the wrapped library.
var pkgLogger atomic.Pointer[zap.Logger]

func init() {
	pkgLogger.Store(zap.NewNop())
}

// SetLogger routes package diagnostics to l. Pass zap.NewNop() to silence
// them again. Safe for concurrent use.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	pkgLogger.Store(l)
}

func logger() *zap.Logger {
	return pkgLogger.Load()
}
