package executors

import (
	"context"
	"errors"
	"sync"
	"time"

	gxtime "github.com/dubbogo/timer"

	"github.com/zhenzou/futures"
)

// NewScheduledPool builds a pool that can also run tasks after a delay or at
// a fixed rate, driven by a timer wheel. It implements futures.Timer, so it
// doubles as the timeout collaborator for promises.
func NewScheduledPool(opts ..._PoolOption) *ScheduledPool {
	scheduled := ScheduledPool{
		Pool: NewPool(opts...),
	}
	scheduled.initTimerWheelOnce = sync.OnceFunc(scheduled.initTimerWheel)
	return &scheduled
}

type ScheduledPool struct {
	*Pool
	tw                 *gxtime.TimerWheel
	initTimerWheelOnce func()
}

var _ futures.Timer = (*ScheduledPool)(nil)

func (p *ScheduledPool) initTimerWheel() {
	p.tw = gxtime.NewTimerWheel()
}

// Schedule runs r on the pool once, after delay.
func (p *ScheduledPool) Schedule(r futures.Runnable, delay time.Duration) (futures.CancelFunc, error) {
	p.initTimerWheelOnce()

	timer := p.tw.AfterFunc(delay, func() {
		err := p.Pool.Execute(r)
		if err != nil {
			if errors.Is(err, ErrShutdown) {
				return
			}
			p.opts.ErrorHandler.CatchError(r, err)
		}
	})
	return timer.Stop, nil
}

// ScheduleAtFixRate runs r on the pool every period.
func (p *ScheduledPool) ScheduleAtFixRate(r futures.Runnable, period time.Duration) (futures.CancelFunc, error) {
	p.initTimerWheelOnce()

	ticker := p.tw.TickFunc(period, func() {
		err := p.Pool.Execute(r)
		if err != nil {
			if errors.Is(err, ErrShutdown) {
				return
			}
			p.opts.ErrorHandler.CatchError(r, err)
		}
	})
	return ticker.Stop, nil
}

// After implements futures.Timer over Schedule.
func (p *ScheduledPool) After(delay time.Duration, fn func()) futures.CancelFunc {
	cancel, _ := p.Schedule(futures.RunnableFunc(func(ctx context.Context) {
		fn()
	}), delay)
	return cancel
}

func (p *ScheduledPool) Shutdown(ctx context.Context) error {
	defer func() {
		if p.tw != nil {
			// wakeup tw
			p.tw.Tick(1 * time.Millisecond)
			p.tw.Close()
		}
	}()

	return p.Pool.Shutdown(ctx)
}
