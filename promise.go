package futures

import (
	"context"
	"log/slog"

	"github.com/zhenzou/futures/routine"
)

// Promise is the exclusive write handle over a completion cell.
// The zero value is not usable; create one with NewPromise.
type Promise[T any] struct {
	cell *cell[T]
	fut  *future[T]
}

func NewPromise[T any](opts ...PromiseOption) *Promise[T] {
	opt := _DefaultPromiseOptions
	for _, o := range opts {
		o(&opt)
	}
	p := newPromise[T](opt)
	p.armTimer()
	return p
}

// newPromise builds a promise without arming the timeout timer. Derived
// promises share the source's deadline instead of arming their own.
func newPromise[T any](opt promiseOptions) *Promise[T] {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.Classifier == nil {
		opt.Classifier = DefaultClassifier
	}
	if opt.ExecutionContext == nil {
		opt.ExecutionContext = goContext{logger: opt.Logger}
	}
	c := newCell[T](opt)
	return &Promise[T]{
		cell: c,
		fut:  &future[T]{cell: c},
	}
}

func (p *Promise[T]) armTimer() {
	opt := p.cell.opts
	if opt.Timer == nil || opt.Timeout == InfiniteTimeout {
		return
	}
	// the timer may fire on another goroutine before After returns, so the
	// handle goes through the cell's lock, never a bare field write
	cancel := opt.Timer.After(opt.Timeout, func() {
		p.Fail(&TimeoutError{After: opt.Timeout})
	})
	p.cell.setCancelTimer(cancel)
}

// Fulfill attempts the pending to succeeded transition. It returns true iff
// this call performed the transition; on false the value is discarded.
func (p *Promise[T]) Fulfill(val T) bool {
	return p.cell.succeed(val)
}

// Fail attempts the pending to failed transition, symmetric to Fulfill.
// A cause matching ErrTimedOut completes the promise as timed out.
func (p *Promise[T]) Fail(cause error) bool {
	return p.cell.fail(cause)
}

// Future returns the shared read-only view. Idempotent.
func (p *Promise[T]) Future() Future[T] {
	return p.fut
}

// goContext is the default execution context: one goroutine per callback,
// panics recovered and logged.
type goContext struct {
	logger *slog.Logger
}

func (g goContext) Execute(r Runnable) error {
	routine.GoWithRecovery(g.logger, func() {
		r.Run(context.Background())
	}, nil)
	return nil
}

// NewGoContext returns an ExecutionContext running every callback on its own
// goroutine.
func NewGoContext(logger *slog.Logger) ExecutionContext {
	if logger == nil {
		logger = slog.Default()
	}
	return goContext{logger: logger}
}
