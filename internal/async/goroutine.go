package async

import (
	"runtime/debug"

	"deepjobsearch/internal/logging"
)

// Go runs fn in a background goroutine guarded by panic recovery, so a
// misbehaving worker cannot take down the request-serving process.
func Go(logger *logging.Logger, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if logger == nil {
					return
				}
				logger.Error("goroutine panic [%s]: %v, stack: %s", name, r, debug.Stack())
			}
		}()
		fn()
	}()
}
