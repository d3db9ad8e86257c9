package futures

import (
	"context"
	"errors"
	"time"
)

// BlockToken gates the blocking wait. Requiring one keeps blocking an
// explicit, auditable decision instead of an accidental stall of a shared
// worker goroutine.
type BlockToken struct {
	_ struct{}
}

// AllowBlocking asserts that the calling goroutine may block.
func AllowBlocking() BlockToken {
	return BlockToken{}
}

type future[T any] struct {
	cell *cell[T]
}

var _ Future[any] = (*future[any])(nil)

func (f *future[T]) OnComplete(fn CompleteFunc[T]) Future[T] {
	f.cell.register(fn)
	return f
}

func (f *future[T]) OnSuccess(fn func(val T)) Future[T] {
	return f.OnComplete(func(r Result[T]) {
		if r.Succeeded() {
			fn(r.Value())
		}
	})
}

func (f *future[T]) OnFailure(match Matcher, fn func(cause error)) Future[T] {
	return f.OnComplete(func(r Result[T]) {
		if r.Succeeded() || r.TimedOut() {
			return
		}
		if match != nil && !match(r.Cause()) {
			return
		}
		fn(r.Cause())
	})
}

func (f *future[T]) OnTimeout(fn func(err *TimeoutError)) Future[T] {
	return f.OnComplete(func(r Result[T]) {
		if !r.TimedOut() {
			return
		}
		fn(f.timeoutError(r.Cause()))
	})
}

// timeoutError recovers the stored *TimeoutError, synthesizing one when the
// promise was failed with a bare timeout mark.
func (f *future[T]) timeoutError(cause error) *TimeoutError {
	var te *TimeoutError
	if errors.As(cause, &te) {
		return te
	}
	return &TimeoutError{After: f.cell.opts.Timeout}
}

func (f *future[T]) Foreach(fn func(val T)) {
	f.OnSuccess(fn)
}

func (f *future[T]) Block(ctx context.Context, _ BlockToken) (T, error) {
	return f.cell.block(ctx)
}

func (f *future[T]) Completed() bool {
	return f.cell.completed()
}

func (f *future[T]) CompletedError() bool {
	_, ok := f.cell.failedCause()
	return ok
}

func (f *future[T]) TimedOut() bool {
	return f.cell.timedOut()
}

func (f *future[T]) Timeout() time.Duration {
	return f.cell.opts.Timeout
}

func (f *future[T]) Deadline() (time.Time, bool) {
	if f.cell.deadline.IsZero() {
		return time.Time{}, false
	}
	return f.cell.deadline, true
}

func (f *future[T]) ExecutionContext() ExecutionContext {
	return f.cell.opts.ExecutionContext
}
