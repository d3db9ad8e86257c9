package futures

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zhenzou/futures/routine"
)

const (
	_StatePending uint32 = iota
	_StateCompleting
	_StateSucceeded
	_StateFailed
)

// cell is the completion slot shared by a promise and its future view.
//
// The status word is the single point of synchronization for completion:
// exactly one completer wins the CAS from pending to completing, writes the
// outcome, and publishes it with the final status store. The callback queue
// and the timer cancel handle are guarded by mu; registration re-checks the
// status under mu so that a callback either lands in the queue before the
// drain or observes the completed state and is dispatched directly. Nothing
// is ever dispatched while mu is held.
type cell[T any] struct {
	status uint32
	val    T
	cause  error

	mu        sync.Mutex
	callbacks []CompleteFunc[T]

	doneCh chan struct{}

	opts        promiseOptions
	deadline    time.Time
	cancelTimer CancelFunc
}

func newCell[T any](opts promiseOptions) *cell[T] {
	c := &cell[T]{
		status: _StatePending,
		doneCh: make(chan struct{}),
		opts:   opts,
	}
	if opts.Timeout != InfiniteTimeout {
		c.deadline = time.Now().Add(opts.Timeout)
	}
	return c
}

func (c *cell[T]) completed() bool {
	return atomic.LoadUint32(&c.status) >= _StateSucceeded
}

func (c *cell[T]) failedCause() (error, bool) {
	if atomic.LoadUint32(&c.status) != _StateFailed {
		return nil, false
	}
	return c.cause, true
}

func (c *cell[T]) timedOut() bool {
	cause, ok := c.failedCause()
	return ok && errors.Is(cause, ErrTimedOut)
}

func (c *cell[T]) succeed(val T) bool {
	if !atomic.CompareAndSwapUint32(&c.status, _StatePending, _StateCompleting) {
		return false
	}
	c.val = val
	atomic.StoreUint32(&c.status, _StateSucceeded)
	c.finish()
	return true
}

func (c *cell[T]) fail(cause error) bool {
	if cause == nil {
		cause = errNilCause
	}
	if !atomic.CompareAndSwapUint32(&c.status, _StatePending, _StateCompleting) {
		return false
	}
	c.cause = cause
	atomic.StoreUint32(&c.status, _StateFailed)
	c.finish()
	return true
}

// finish runs on the winning completer, after the final status store.
func (c *cell[T]) finish() {
	close(c.doneCh)

	c.mu.Lock()
	cancel := c.cancelTimer
	c.cancelTimer = nil
	cbs := c.callbacks
	c.callbacks = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, cb := range cbs {
		c.dispatch(cb)
	}
}

// setCancelTimer publishes the timer cancel handle. The timer may already
// have fired and completed the cell while Timer.After was still returning;
// in that case the handle is released right away instead of stored.
func (c *cell[T]) setCancelTimer(cancel CancelFunc) {
	if cancel == nil {
		return
	}

	c.mu.Lock()
	if c.completed() {
		c.mu.Unlock()
		cancel()
		return
	}
	c.cancelTimer = cancel
	c.mu.Unlock()
}

func (c *cell[T]) register(fn CompleteFunc[T]) {
	if c.completed() {
		c.dispatch(fn)
		return
	}

	c.mu.Lock()
	if c.completed() {
		c.mu.Unlock()
		c.dispatch(fn)
		return
	}
	c.callbacks = append(c.callbacks, fn)
	c.mu.Unlock()
}

// dispatch hands fn to the execution context with the final outcome.
// A rejected submission still has to run the callback exactly once, so it
// falls back to a fresh goroutine.
func (c *cell[T]) dispatch(fn CompleteFunc[T]) {
	r := c.result()
	err := c.opts.ExecutionContext.Execute(RunnableFunc(func(ctx context.Context) {
		fn(r)
	}))
	if err != nil {
		c.opts.Logger.Warn("execution context rejected callback, running on a new goroutine",
			slog.Any("cause", err))
		routine.GoWithRecovery(c.opts.Logger, func() {
			fn(r)
		}, nil)
	}
}

func (c *cell[T]) result() Result[T] {
	if atomic.LoadUint32(&c.status) == _StateSucceeded {
		return Success(c.val)
	}
	return Failure[T](c.cause)
}

func (c *cell[T]) block(ctx context.Context) (T, error) {
	if c.completed() {
		return c.result().Get()
	}
	return c.await(ctx)
}

// await waits for completion, the deadline or ctx. When several cases are
// ready at once the select picks one at random, so the ctx and deadline
// branches re-check for a completed outcome before giving up on it.
func (c *cell[T]) await(ctx context.Context) (T, error) {
	var timeoutCh <-chan time.Time
	if !c.deadline.IsZero() {
		timer := time.NewTimer(time.Until(c.deadline))
		defer timer.Stop()
		timeoutCh = timer.C
	}

	var zero T
	select {
	case <-c.doneCh:
		return c.result().Get()
	case <-ctx.Done():
		if c.completed() {
			return c.result().Get()
		}
		return zero, ctx.Err()
	case <-timeoutCh:
		if c.completed() {
			return c.result().Get()
		}
		return zero, &TimeoutError{After: c.opts.Timeout}
	}
}
