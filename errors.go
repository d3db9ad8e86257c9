package futures

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimedOut marks the timeout completion kind. Any failure cause for which
// errors.Is(cause, ErrTimedOut) holds completes a future as timed out.
var ErrTimedOut = errors.New("future timed out")

var errNilCause = errors.New("failed with nil cause")

// TimeoutError is the cause stored when a future times out.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	if e.After <= 0 || e.After == InfiniteTimeout {
		return "future timed out"
	}
	return fmt.Sprintf("future timed out after %s", e.After)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimedOut
}

// PanicError wraps a value recovered from a panicking user function.
type PanicError struct {
	Cause any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Cause)
}

func (e PanicError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// PredicateError is the failure of a filtered future whose value was
// rejected by the predicate.
type PredicateError struct {
	Value any
}

func (e PredicateError) Error() string {
	return fmt.Sprintf("predicate not satisfied for value %v", e.Value)
}

// NotFailedError is the failure of a Failed projection whose source did not
// fail with a non-timeout cause. Value carries the source's success value
// when it succeeded; TimedOut is set when the source timed out instead.
type NotFailedError struct {
	Value    any
	TimedOut bool
}

func (e NotFailedError) Error() string {
	if e.TimedOut {
		return "future did not fail with an error: timed out"
	}
	return fmt.Sprintf("future did not fail with an error: succeeded with %v", e.Value)
}

// NotTimedOutError is the failure of an Expired projection whose source
// completed with something other than a timeout.
type NotTimedOutError struct {
	Value any
	Cause error
}

func (e NotTimedOutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("future did not time out: failed with %v", e.Cause)
	}
	return fmt.Sprintf("future did not time out: succeeded with %v", e.Value)
}

func (e NotTimedOutError) Unwrap() error {
	return e.Cause
}
