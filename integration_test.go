package futures_test

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zhenzou/futures"
	"github.com/zhenzou/futures/deadline"
	"github.com/zhenzou/futures/executors"
)

// The producer wins against a 100ms timeout: the success callback runs
// exactly once, the failure callback never runs, and a later Block returns
// the value without delay.
func TestScheduledPool_ProducerBeatsTimeout(t *testing.T) {
	pool := executors.NewScheduledPool(executors.WithMaxConcurrent(10))
	t.Cleanup(func() {
		_ = pool.Shutdown(context.Background())
	})

	p := futures.NewPromise[int](
		futures.WithExecutionContext(pool),
		futures.WithTimer(pool),
		futures.WithTimeout(100*time.Millisecond),
	)

	var counter atomic.Int32
	done := make(chan struct{})

	p.Future().
		OnSuccess(func(val int) {
			counter.Add(1)
			close(done)
		}).
		OnFailure(nil, func(cause error) {
			counter.Add(-1)
		}).
		OnTimeout(func(err *futures.TimeoutError) {
			counter.Add(-1)
		})

	time.AfterFunc(10*time.Millisecond, func() {
		p.Fulfill(5)
	})

	<-done

	start := time.Now()
	got, err := p.Future().Block(context.Background(), futures.AllowBlocking())
	require.NoError(t, err)
	require.Equal(t, 5, got)
	require.Less(t, time.Since(start), 50*time.Millisecond)

	// well past the configured deadline, the late timer fire changes nothing
	time.Sleep(150 * time.Millisecond)
	require.Equal(t, int32(1), counter.Load())
	require.False(t, p.Future().TimedOut())
}

func TestDeadlineDispatcher_DeliversTimeout(t *testing.T) {
	dispatcher := deadline.NewDispatcher(nil, nil)
	t.Cleanup(dispatcher.Shutdown)

	p := futures.NewPromise[string](
		futures.WithTimer(dispatcher),
		futures.WithTimeout(50*time.Millisecond),
	)

	ch := make(chan *futures.TimeoutError, 1)
	p.Future().OnTimeout(func(err *futures.TimeoutError) {
		ch <- err
	})

	select {
	case te := <-ch:
		require.Equal(t, 50*time.Millisecond, te.After)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout was never delivered")
	}

	require.True(t, p.Future().TimedOut())
	require.False(t, p.Fulfill("too late"))

	_, err := p.Future().Block(context.Background(), futures.AllowBlocking())
	require.ErrorIs(t, err, futures.ErrTimedOut)
}

func TestSubmit_CombinatorChain(t *testing.T) {
	pool := executors.NewScheduledPool(executors.WithMaxConcurrent(10))
	t.Cleanup(func() {
		_ = pool.Shutdown(context.Background())
	})

	f, err := executors.Submit(pool.Pool, futures.CallableFunc[int](func(ctx context.Context) (int, error) {
		return 21, nil
	}))
	require.NoError(t, err)

	chained := futures.Map(
		futures.Filter(f, func(val int) bool { return val > 0 }),
		func(val int) (string, error) {
			return strconv.Itoa(val * 2), nil
		})

	got, err := chained.Block(context.Background(), futures.AllowBlocking())
	require.NoError(t, err)
	require.Equal(t, "42", got)
}
