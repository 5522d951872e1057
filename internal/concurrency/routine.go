package concurrency

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"
)

// SafeGo runs fn in a goroutine. A panic is logged with its stack and
// passed to onPanic as an internal error.
func SafeGo(name string, fn func(), onPanic func(error)) {
	go func() {
		if err := Call(name, func() error { fn(); return nil }); err != nil && onPanic != nil {
			onPanic(err)
		}
	}()
}

// Call runs fn on the current goroutine and turns a panic into an
// ErrInternal error.
func Call(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic recovered", "routine", name, "panic", r, "stack", string(debug.Stack()))
			err = estateErrors.Internal(fmt.Sprintf("%s panicked: %v", name, r))
		}
	}()
	return fn()
}
