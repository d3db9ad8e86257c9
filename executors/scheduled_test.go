package executors

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zhenzou/futures"
)

func TestScheduledPool_Schedule(t *testing.T) {
	pool := NewScheduledPool(WithMaxConcurrent(10))
	t.Cleanup(func() {
		_ = pool.Shutdown(context.Background())
	})

	var i int64 = 10
	_, _ = pool.Schedule(futures.RunnableFunc(func(ctx context.Context) {
		atomic.AddInt64(&i, 10)
	}), 200*time.Millisecond)

	time.Sleep(1 * time.Second)
	require.Equal(t, int64(20), atomic.LoadInt64(&i))
}

func TestScheduledPool_ScheduleAtFixRate(t *testing.T) {
	pool := NewScheduledPool(WithMaxConcurrent(10))
	t.Cleanup(func() {
		_ = pool.Shutdown(context.Background())
	})

	var i int64
	_, _ = pool.ScheduleAtFixRate(futures.RunnableFunc(func(ctx context.Context) {
		atomic.AddInt64(&i, 10)
	}), 100*time.Millisecond)

	time.Sleep(1 * time.Second)
	require.GreaterOrEqual(t, atomic.LoadInt64(&i), int64(50))
}

func TestScheduledPool_After(t *testing.T) {
	pool := NewScheduledPool(WithMaxConcurrent(10))
	t.Cleanup(func() {
		_ = pool.Shutdown(context.Background())
	})

	t.Run("fires once", func(t *testing.T) {
		var fired atomic.Int32
		pool.After(100*time.Millisecond, func() {
			fired.Add(1)
		})

		time.Sleep(500 * time.Millisecond)
		require.Equal(t, int32(1), fired.Load())
	})

	t.Run("cancel before due", func(t *testing.T) {
		var fired atomic.Int32
		cancel := pool.After(300*time.Millisecond, func() {
			fired.Add(1)
		})
		cancel()

		time.Sleep(600 * time.Millisecond)
		require.Equal(t, int32(0), fired.Load())
	})
}
