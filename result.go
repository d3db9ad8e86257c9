package futures

import "errors"

// Result is the outcome handed to completion callbacks: either a value or a
// failure cause, never both.
type Result[T any] struct {
	val   T
	cause error
}

func Success[T any](val T) Result[T] {
	return Result[T]{val: val}
}

func Failure[T any](cause error) Result[T] {
	if cause == nil {
		cause = errNilCause
	}
	return Result[T]{cause: cause}
}

func (r Result[T]) Succeeded() bool {
	return r.cause == nil
}

// TimedOut reports whether the result is a timeout failure.
func (r Result[T]) TimedOut() bool {
	return r.cause != nil && errors.Is(r.cause, ErrTimedOut)
}

// Value returns the success value, zero if the result is a failure.
func (r Result[T]) Value() T {
	return r.val
}

// Cause returns the failure cause, nil if the result is a success.
func (r Result[T]) Cause() error {
	return r.cause
}

func (r Result[T]) Get() (T, error) {
	return r.val, r.cause
}
