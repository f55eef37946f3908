package middlewares

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// PanicError is what Recover returns in place of a panic raised by a later
// stage. Method and Path name the request whose chain panicked.
type PanicError struct {
	Value  any
	Stack  []byte // nil when stack capture is disabled
	Method string
	Path   string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// TimeoutError is the cause attached to the 504 produced by Timeout.
type TimeoutError struct {
	Limit time.Duration
	Path  string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: deadline of %s exceeded", e.Path, e.Limit)
}

// Is matches context.DeadlineExceeded.
func (e *TimeoutError) Is(target error) bool {
	return target == context.DeadlineExceeded
}

// AsPanicError finds a *PanicError in err's chain.
func AsPanicError(err error) (*PanicError, bool) {
	return asError[*PanicError](err)
}

// AsTimeoutError finds a *TimeoutError in err's chain, including one carried
// as the cause of an HTTP error.
func AsTimeoutError(err error) (*TimeoutError, bool) {
	return asError[*TimeoutError](err)
}

func asError[E error](err error) (E, bool) {
	var target E
	ok := errors.As(err, &target)
	return target, ok
}
