package main

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/zhenzou/futures"
	"github.com/zhenzou/futures/executors"
)

func main() {
	pool := executors.NewScheduledPool(executors.WithMaxConcurrent(10))
	defer pool.Shutdown(context.Background())

	// produce a value from another goroutine, consume it via callbacks
	p := futures.NewPromise[int](
		futures.WithExecutionContext(pool),
		futures.WithTimer(pool),
		futures.WithTimeout(1*time.Second),
	)

	go func() {
		time.Sleep(100 * time.Millisecond)
		p.Fulfill(21)
	}()

	chained := futures.Map(
		futures.Filter(p.Future(), func(val int) bool { return val > 0 }),
		func(val int) (string, error) {
			return strconv.Itoa(val * 2), nil
		})

	chained.
		OnSuccess(func(val string) {
			println(val)
		}).
		OnFailure(nil, func(cause error) {
			println(cause.Error())
		}).
		OnTimeout(func(err *futures.TimeoutError) {
			println(err.Error())
		})

	// block, wait synchronously for the outcome
	got, err := chained.Block(context.Background(), futures.AllowBlocking())
	if err != nil {
		panic(err)
	}
	println(got)

	// recover a failure into a fallback value
	failing, _ := executors.Submit(pool.Pool, futures.CallableFunc[int](func(ctx context.Context) (int, error) {
		return 0, errors.New("upstream unavailable")
	}))
	recovered := futures.Recover(failing, futures.MatchAny, func(cause error) (int, error) {
		return -1, nil
	})

	fallback, _ := recovered.Block(context.Background(), futures.AllowBlocking())
	println(fallback)
}
