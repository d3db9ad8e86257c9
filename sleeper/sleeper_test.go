package sleeper

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_sleeper_Wakeup(t *testing.T) {
	s := NewSleeper()

	// should not block if no waiting goroutine
	s.Wakeup()
	s.Wakeup()
	s.Wakeup()
}

func Test_sleeper_Sleep(t *testing.T) {
	t.Run("woken up early", func(t *testing.T) {
		s := NewSleeper()

		done := make(chan struct{})
		start := time.Now()

		go func() {
			s.Sleep(10 * time.Second)
			close(done)
		}()

		time.Sleep(100 * time.Millisecond)
		s.Wakeup()

		<-done
		require.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("times out without wakeup", func(t *testing.T) {
		s := NewSleeper()

		var woke atomic.Bool
		start := time.Now()

		s.Sleep(200 * time.Millisecond)
		woke.Store(true)

		require.True(t, woke.Load())
		require.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
	})
}
