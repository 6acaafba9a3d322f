package replay

import (
	"time"

	"github.com/tatianab/tactics-game/internal/models"
)

// Controller owns the single live Scheduler driving a Sink.
type Controller struct {
	sink     Sink
	clock    Clock
	interval time.Duration
	current  *Scheduler

	// OnFatal is installed on every scheduler the controller creates.
	OnFatal func(error)
}

func NewController(sink Sink, clock Clock, interval time.Duration) *Controller {
	return &Controller{sink: sink, clock: clock, interval: interval}
}

// Restart cancels the current scheduler, then creates and starts a new
// one over log. On error the previous scheduler stays cancelled.
func (c *Controller) Restart(log models.ActionLog) (*Scheduler, error) {
	if c.current != nil {
		c.current.Cancel()
		c.current = nil
	}
	s, err := New(log, c.sink, c.clock, c.interval)
	if err != nil {
		return nil, err
	}
	s.OnFatal = c.OnFatal
	c.current = s
	s.Start()
	return s, nil
}

// Current returns the live scheduler, or nil.
func (c *Controller) Current() *Scheduler { return c.current }

// SetInterval changes the pace used by the next Restart.
func (c *Controller) SetInterval(d time.Duration) { c.interval = d }

func (c *Controller) Interval() time.Duration { return c.interval }

// Stop cancels the live scheduler, if any.
func (c *Controller) Stop() {
	if c.current != nil {
		c.current.Cancel()
		c.current = nil
	}
}
