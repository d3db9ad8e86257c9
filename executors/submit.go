package executors

import (
	"context"

	"github.com/zhenzou/futures"
)

// Submit runs c on the pool and exposes its eventual result as a Future. The
// returned future dispatches its own callbacks through the same pool. A
// panic inside c fails the future with a futures.PanicError instead of
// leaving it pending.
func Submit[T any](p *Pool, c futures.Callable[T], opts ...futures.PromiseOption) (futures.Future[T], error) {
	all := append([]futures.PromiseOption{
		futures.WithExecutionContext(p),
		futures.WithLogger(p.opts.Logger),
	}, opts...)
	promise := futures.NewPromise[T](all...)

	err := p.Execute(futures.RunnableFunc(func(ctx context.Context) {
		defer func() {
			if cause := recover(); cause != nil {
				promise.Fail(futures.PanicError{Cause: cause})
			}
		}()
		val, err := c.Call(ctx)
		if err != nil {
			promise.Fail(err)
			return
		}
		promise.Fulfill(val)
	}))
	if err != nil {
		return nil, err
	}
	return promise.Future(), nil
}
