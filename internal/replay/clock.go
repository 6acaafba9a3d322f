package replay

import (
	"context"
	"sync"
	"time"
)

// Clock is a recurring tick source.
// fn must be invoked on the goroutine that owns the scheduler; calling
// stop prevents further invocations, although one already queued may
// still arrive.
type Clock interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// ManualClock fires only when told to. It is used for tests and for
// playing a log back without pacing.
type ManualClock struct {
	next   int
	timers map[int]func()
}

func NewManualClock() *ManualClock {
	return &ManualClock{timers: make(map[int]func())}
}

func (c *ManualClock) Every(_ time.Duration, fn func()) func() {
	id := c.next
	c.next++
	c.timers[id] = fn
	return func() { delete(c.timers, id) }
}

// Advance fires every active timer once, in registration order.
func (c *ManualClock) Advance() {
	n := c.next
	for id := 0; id < n; id++ {
		if fn, ok := c.timers[id]; ok {
			fn()
		}
	}
}

// Active reports the number of timers that have not been stopped.
func (c *ManualClock) Active() int { return len(c.timers) }

// Loop is a Clock whose ticks are executed by Run on the caller's
// goroutine. Timer goroutines only deliver events.
type Loop struct {
	events chan func()
}

func NewLoop() *Loop {
	return &Loop{events: make(chan func())}
}

func (l *Loop) Every(interval time.Duration, fn func()) func() {
	done := make(chan struct{})
	var once sync.Once

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				select {
				case l.events <- fn:
				case <-done:
					return
				}
			}
		}
	}()

	return func() { once.Do(func() { close(done) }) }
}

// Run executes ticks until finished reports true or ctx is done.
func (l *Loop) Run(ctx context.Context, finished func() bool) error {
	for !finished() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.events:
			fn()
		}
	}
	return nil
}
