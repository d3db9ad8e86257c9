// Package executors provides execution-context and timer collaborators for
// the futures package, backed by an ants goroutine pool and a timer wheel.
package executors

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/zhenzou/futures"
)

var (
	ErrShutdown          = errors.New("executor shutdown")
	ErrRejectedExecution = errors.New("rejected execution")
)

type ErrorHandler interface {
	CatchError(runnable futures.Runnable, e error)
}

type ErrorHandlerFunc func(runnable futures.Runnable, e error)

func (f ErrorHandlerFunc) CatchError(runnable futures.Runnable, e error) {
	f(runnable, e)
}

type RejectionHandler interface {
	RejectExecution(runnable futures.Runnable, e futures.ExecutionContext) error
}

type _PoolOption func(opts *poolOptions)

type poolOptions struct {
	MaxConcurrent    int
	MaxBlockingTasks int
	ExecuteTimeout   time.Duration
	ErrorHandler     ErrorHandler
	RejectionHandler RejectionHandler
	Logger           *slog.Logger
}

var _DefaultPoolOptions = poolOptions{
	MaxConcurrent:    10,
	ExecuteTimeout:   0,
	ErrorHandler:     LogErrorHandler{},
	RejectionHandler: NoopRejectionPolicy{},
	Logger:           slog.Default(),
}

func WithMaxConcurrent(concurrent int) _PoolOption {
	return func(opts *poolOptions) {
		opts.MaxConcurrent = concurrent
	}
}

func WithMaxBlockingTasks(max int) _PoolOption {
	return func(opts *poolOptions) {
		opts.MaxBlockingTasks = max
	}
}

func WithExecuteTimeout(ts time.Duration) _PoolOption {
	return func(opts *poolOptions) {
		opts.ExecuteTimeout = ts
	}
}

func WithErrorHandler(handler ErrorHandler) _PoolOption {
	return func(opts *poolOptions) {
		opts.ErrorHandler = handler
	}
}

func WithRejectionHandler(handler RejectionHandler) _PoolOption {
	return func(opts *poolOptions) {
		opts.RejectionHandler = handler
	}
}

func WithLogger(logger *slog.Logger) _PoolOption {
	return func(opts *poolOptions) {
		opts.Logger = logger
	}
}

// Pool is a bounded futures.ExecutionContext over an ants pool.
type Pool struct {
	opts poolOptions
	pool *ants.Pool
}

var _ futures.ExecutionContext = (*Pool)(nil)

func NewPool(opts ..._PoolOption) *Pool {
	var opt = _DefaultPoolOptions
	for _, o := range opts {
		o(&opt)
	}
	pool, err := ants.NewPool(opt.MaxConcurrent,
		ants.WithMaxBlockingTasks(opt.MaxBlockingTasks),
		// do nothing, handled by ErrorHandler
		ants.WithPanicHandler(func(cause interface{}) {}))
	if err != nil {
		panic(err)
	}
	return &Pool{
		opts: opt,
		pool: pool,
	}
}

// Execute runs r on the pool.
// Returns ErrShutdown after Shutdown, or the rejection policy's verdict when
// the pool is saturated. A panicking runnable is contained into a
// futures.PanicError and handed to the ErrorHandler.
func (p *Pool) Execute(r futures.Runnable) error {
	err := p.pool.Submit(func() {
		ctx, cancelFunc := p.newContext()
		defer cancelFunc()
		defer func() {
			if cause := recover(); cause != nil {
				p.opts.ErrorHandler.CatchError(r, futures.PanicError{Cause: cause})
			}
		}()
		r.Run(ctx)
	})

	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ants.ErrPoolClosed):
		return ErrShutdown
	case errors.Is(err, ants.ErrPoolOverload):
		return p.opts.RejectionHandler.RejectExecution(r, p)
	default:
		return err
	}
}

// Shutdown releases the pool, waiting for running tasks up to ctx.
func (p *Pool) Shutdown(ctx context.Context) error {
	ch := make(chan struct{})
	go func() {
		p.pool.Release()
		close(ch)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ch:
		return nil
	}
}

func (p *Pool) newContext() (context.Context, context.CancelFunc) {
	if p.opts.ExecuteTimeout == 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), p.opts.ExecuteTimeout)
}

type LogErrorHandler struct {
}

func (d LogErrorHandler) CatchError(runnable futures.Runnable, e error) {
	slog.Error("catch error", slog.Any("cause", e))
}

type DiscardErrorHandler struct {
}

func (d DiscardErrorHandler) CatchError(runnable futures.Runnable, e error) {
}

type NoopRejectionPolicy struct {
}

func (d NoopRejectionPolicy) RejectExecution(runnable futures.Runnable, e futures.ExecutionContext) error {
	return ErrRejectedExecution
}

type DiscardRejectionPolicy struct {
}

func (d DiscardRejectionPolicy) RejectExecution(runnable futures.Runnable, e futures.ExecutionContext) error {
	return nil
}

// CallerRunsRejectionPolicy runs a rejected runnable synchronously on the
// calling goroutine. Do not install it on a pool that backs promise callback
// dispatch: under saturation, completion callbacks would run on the
// completing goroutine, which the futures.ExecutionContext contract forbids.
// Pools returning an error instead (NoopRejectionPolicy) keep dispatch
// asynchronous, since the cell falls back to a fresh goroutine.
type CallerRunsRejectionPolicy struct {
}

func (d CallerRunsRejectionPolicy) RejectExecution(runnable futures.Runnable, e futures.ExecutionContext) error {
	runnable.Run(context.Background())
	return nil
}
