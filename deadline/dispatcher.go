// Package deadline provides a futures.Timer that tracks one-shot deadlines
// on a min-heap and fires them through an execution context. One goroutine
// serves any number of armed deadlines, which suits a process with many
// promises carrying individual timeouts.
package deadline

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zyedidia/generic/heap"

	"github.com/zhenzou/futures"
	"github.com/zhenzou/futures/routine"
	"github.com/zhenzou/futures/sleeper"
)

const (
	maxYieldDuration = 1 * time.Minute
)

type entry struct {
	ID   int64
	At   time.Time
	fire func()
}

var entryIDGenerator atomic.Int64

func nextEntryID() int64 {
	return entryIDGenerator.Add(1)
}

func entryLessThan(a, b *entry) bool {
	return a.At.Before(b.At)
}

// NewDispatcher builds a dispatcher firing callbacks through ec. A nil ec
// falls back to a goroutine-per-callback context.
func NewDispatcher(ec futures.ExecutionContext, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if ec == nil {
		ec = futures.NewGoContext(logger)
	}
	return &Dispatcher{
		heap:    heap.New[*entry](entryLessThan),
		locker:  &sync.Mutex{},
		close:   make(chan struct{}),
		ec:      ec,
		logger:  logger,
		sleeper: sleeper.NewSleeper(),
		nowFn:   time.Now,
	}
}

type Dispatcher struct {
	heap     *heap.Heap[*entry]
	locker   sync.Locker
	close    chan struct{}
	loopOnce sync.Once
	ec       futures.ExecutionContext
	logger   *slog.Logger
	sleeper  sleeper.Sleeper
	nowFn    func() time.Time
}

var _ futures.Timer = (*Dispatcher)(nil)

// After arms fn to fire once, no earlier than delay from now. The returned
// CancelFunc disarms it; cancellation racing an in-flight fire is harmless
// for promise timeouts, a late Fail simply loses the completion race.
func (d *Dispatcher) After(delay time.Duration, fn func()) futures.CancelFunc {
	e := &entry{
		ID:   nextEntryID(),
		At:   d.nowFn().Add(delay),
		fire: fn,
	}

	d.locker.Lock()
	d.heap.Push(e)
	d.locker.Unlock()

	d.loopOnce.Do(d.loopFireDue)

	d.sleeper.Wakeup()

	return d.getRemoveFunc(e)
}

// Shutdown stops the fire loop. Armed entries are dropped.
func (d *Dispatcher) Shutdown() {
	close(d.close)
	d.sleeper.Wakeup()
}

func (d *Dispatcher) getRemoveFunc(e *entry) func() {
	return func() { d.removeEntry(e) }
}

func (d *Dispatcher) removeEntry(e *entry) {
	d.locker.Lock()
	defer d.locker.Unlock()

	var entries []*entry

	for {
		cur, ok := d.heap.Pop()
		if !ok {
			break
		}
		if cur.ID == e.ID {
			continue
		}
		entries = append(entries, cur)
	}

	d.heap = heap.FromSlice[*entry](entryLessThan, entries)
}

func (d *Dispatcher) loopFireDue() {
	routine.GoWithRecovery(d.logger, func() {
		d.logger.Debug("deadline dispatcher started")

		for {
			select {
			case <-d.close:
				d.logger.Info("deadline dispatcher closed")
				return
			default:
				duration, fired := d.fireDue()
				if !fired {
					d.logger.Debug("start to sleep", slog.String("duration", duration.String()))

					d.sleeper.Sleep(duration)
				}
			}
		}
	}, d.loopFireDue)
}

func getYieldDuration(e *entry, now time.Time) time.Duration {
	return min(maxYieldDuration, e.At.Sub(now))
}

// will return yield time if false
// will return 0 if true
func (d *Dispatcher) fireDue() (time.Duration, bool) {
	d.locker.Lock()

	e, ok := d.heap.Peek()

	if !ok {
		d.locker.Unlock()
		return maxYieldDuration, false
	}

	now := d.nowFn()
	if e.At.After(now) {
		d.locker.Unlock()
		return getYieldDuration(e, now), false
	}

	_, _ = d.heap.Pop()
	d.locker.Unlock()

	d.submit(e)
	return 0, true
}

func (d *Dispatcher) submit(e *entry) {
	err := d.ec.Execute(futures.RunnableFunc(func(ctx context.Context) {
		e.fire()
	}))
	if err != nil {
		d.logger.Warn("execution context rejected deadline fire, running on a new goroutine",
			slog.Any("cause", err))
		routine.Go(d.logger, e.fire)
	}
}
