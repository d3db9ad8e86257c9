// Package futures provides a write-once Promise and its read-only Future
// view for handing a pending result across goroutine boundaries.
//
// A Promise is completed at most once, by Fulfill or Fail. Its Future exposes
// callback registration, combinators and a blocking wait. Callbacks are never
// run on the registering or completing goroutine; they are handed to an
// ExecutionContext, so timing is uniform whether a callback is registered
// before or after completion.
package futures

import (
	"context"
	"time"
)

type CancelFunc = func()

type Runnable interface {
	Run(ctx context.Context)
}

type RunnableFunc func(ctx context.Context)

func (r RunnableFunc) Run(ctx context.Context) {
	r(ctx)
}

type Callable[T any] interface {
	Call(ctx context.Context) (T, error)
}

type CallableFunc[T any] func(ctx context.Context) (T, error)

func (c CallableFunc[T]) Call(ctx context.Context) (T, error) {
	return c(ctx)
}

// ExecutionContext runs completion callbacks.
// Execute must run the runnable asynchronously, exactly once, and must not
// panic for a well-formed runnable. A non-nil error means the runnable was
// not accepted; the caller decides how to fall back.
type ExecutionContext interface {
	Execute(Runnable) error
}

// Timer fires fn once, no earlier than delay from now.
// The returned CancelFunc is best-effort; firing after cancel is harmless
// for promise timeouts since late completions lose the first-writer race.
type Timer interface {
	After(delay time.Duration, fn func()) CancelFunc
}

// CompleteFunc receives the final outcome of a future.
type CompleteFunc[T any] func(Result[T])

// Matcher reports whether a failure handler applies to a cause.
// A nil Matcher matches every cause.
type Matcher func(cause error) bool

// Future is the read-only view over a promise's completion cell.
//
// OnComplete is the sole primitive; everything else, including the package
// level combinators, is defined in terms of it.
type Future[T any] interface {
	// OnComplete registers fn to run exactly once with the final outcome.
	// If the future is already completed, fn is submitted to the execution
	// context immediately. Returns the future for chained registration.
	OnComplete(fn CompleteFunc[T]) Future[T]

	// OnSuccess runs fn with the value iff the future succeeds.
	OnSuccess(fn func(val T)) Future[T]

	// OnFailure runs fn iff the future fails with a non-timeout cause
	// matched by match. A nil match matches every non-timeout cause.
	OnFailure(match Matcher, fn func(cause error)) Future[T]

	// OnTimeout runs fn iff the future fails by timing out.
	OnTimeout(fn func(err *TimeoutError)) Future[T]

	// Foreach is OnSuccess without the chaining result.
	Foreach(fn func(val T))

	// Failed projects failure as success: it succeeds with the cause iff
	// this future fails with a non-timeout cause, and fails with a
	// NotFailedError otherwise.
	Failed() Future[error]

	// Expired projects timeout as success: it succeeds iff this future
	// times out, and fails with a NotTimedOutError otherwise.
	Expired() Future[*TimeoutError]

	// Block waits for completion and returns the outcome. It returns a
	// TimeoutError if the configured deadline elapses first, or ctx.Err()
	// if ctx is done first. The token makes blocking an explicit opt-in;
	// obtain one with AllowBlocking.
	Block(ctx context.Context, token BlockToken) (T, error)

	// Completed reports whether the future is no longer pending.
	Completed() bool

	// CompletedError reports whether the future completed with a failure.
	CompletedError() bool

	// TimedOut reports whether the future failed by timing out.
	TimedOut() bool

	// Timeout returns the configured timeout. InfiniteTimeout means none.
	Timeout() time.Duration

	// Deadline returns the completion deadline, false if there is none.
	Deadline() (time.Time, bool)

	// ExecutionContext returns the context callbacks are dispatched to.
	ExecutionContext() ExecutionContext
}
