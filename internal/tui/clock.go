package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// clockTickMsg carries a scheduler tick into Update, so playback runs on
// the program's goroutine.
type clockTickMsg struct {
	fn func()
}

// programClock is a replay.Clock that delivers ticks as messages.
type programClock struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// bind sets the message sink, normally (*tea.Program).Send.
func (c *programClock) bind(send func(tea.Msg)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.send = send
}

func (c *programClock) deliver(msg tea.Msg) {
	c.mu.Lock()
	send := c.send
	c.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (c *programClock) Every(interval time.Duration, fn func()) func() {
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
				c.deliver(clockTickMsg{fn: fn})
			}
		}
	}()

	return func() { once.Do(func() { close(done) }) }
}
