package futures

import (
	"context"
	"errors"
	"runtime"
)

// Class partitions a value recovered from a panicking user function.
type Class uint8

const (
	// ClassRepresentable failures are stored as the future's cause.
	ClassRepresentable Class = iota

	// ClassTimeout signals complete the future as timed out.
	ClassTimeout

	// ClassFatal values are never stored verbatim: the future is completed
	// with a PanicError wrapper and the panic is re-raised on the
	// evaluating goroutine.
	ClassFatal
)

// Classifier decides how a recovered panic value is contained. The precise
// set of fatal kinds is runtime specific, so it is injectable via
// WithClassifier.
type Classifier func(cause any) Class

// DefaultClassifier treats runtime errors and cooperative-cancellation
// signals as fatal, timeout marks as timeout signals, and everything else as
// representable.
func DefaultClassifier(cause any) Class {
	err, ok := cause.(error)
	if !ok {
		return ClassRepresentable
	}
	switch {
	case errors.Is(err, ErrTimedOut), errors.Is(err, context.DeadlineExceeded):
		return ClassTimeout
	case errors.Is(err, context.Canceled):
		return ClassFatal
	}
	var rerr runtime.Error
	if errors.As(err, &rerr) {
		return ClassFatal
	}
	return ClassRepresentable
}

// MatchAny matches every cause.
func MatchAny(error) bool {
	return true
}

// MatchIs matches causes for which errors.Is(cause, target) holds.
func MatchIs(target error) Matcher {
	return func(cause error) bool {
		return errors.Is(cause, target)
	}
}

// MatchAs matches causes assignable to the concrete error type E.
func MatchAs[E error]() Matcher {
	return func(cause error) bool {
		var e E
		return errors.As(cause, &e)
	}
}
