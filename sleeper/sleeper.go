package sleeper

import (
	"time"
)

// Sleeper is a wakeable sleep for a single waiting goroutine.
// Not safe for concurrent Sleep calls.
type Sleeper interface {
	// Wakeup interrupts a pending Sleep; no-op when nothing is sleeping.
	Wakeup()

	// Sleep blocks for duration unless woken up earlier.
	Sleep(duration time.Duration)
}

func NewSleeper() Sleeper {
	return &sleeper{
		ch: make(chan struct{}, 1),
	}
}

type sleeper struct {
	ch chan struct{}
}

func (s *sleeper) Wakeup() {
	// do nothing if no waiting goroutine
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

func (s *sleeper) Sleep(duration time.Duration) {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		// timed out
	case <-s.ch:
		// woken up
	}
}
