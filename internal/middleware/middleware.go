package middleware

import (
	"runtime/debug"
	"time"

	"github.com/pavelc4/terabox-tg-bot/pkg/logger"
)

// SlowThreshold is the handler duration above which completion is logged
// at info level.
const SlowThreshold = 100 * time.Millisecond

type Middleware func(next func()) func()

// Recover stops a panicking handler from taking the process down.
func Recover(next func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered", "error", r, "stack", string(debug.Stack()))
			}
		}()
		next()
	}
}

func Logger(name string, next func()) func() {
	return func() {
		start := time.Now()

		defer func() {
			duration := time.Since(start)
			if duration > SlowThreshold {
				logger.Info("Handler completed (slow)", "name", name, "duration", duration)
			} else {
				logger.Debug("Handler completed", "name", name, "duration", duration)
			}
		}()

		next()
	}
}

// Named adapts Logger to a Middleware.
func Named(name string) Middleware {
	return func(next func()) func() { return Logger(name, next) }
}

// Chain wraps f so that the first middleware runs outermost.
func Chain(f func(), middlewares ...Middleware) func() {
	for i := len(middlewares) - 1; i >= 0; i-- {
		f = middlewares[i](f)
	}
	return f
}
