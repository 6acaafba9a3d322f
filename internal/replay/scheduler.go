// Package replay paces a pre-computed action log into a Sink.
//
// All scheduler methods and ticks must run on a single goroutine.
// Clock implementations are responsible for delivering ticks there.
package replay

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tatianab/tactics-game/internal/logger"
	"github.com/tatianab/tactics-game/internal/models"
)

// State is the playback state of a Scheduler.
type State int

const (
	Idle State = iota
	Running
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrContractViolation = errors.New("engine contract violation")
	ErrNotPaused         = errors.New("playback is not paused")
	ErrFinished          = errors.New("playback is finished")
	ErrCancelled         = errors.New("playback was cancelled")
)

// ContractViolationError reports an action the Sink cannot apply.
type ContractViolationError struct {
	Index  int
	Action models.Action
	Err    error
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("action %d %v: %v", e.Index, e.Action, e.Err)
}

func (e *ContractViolationError) Unwrap() []error {
	return []error{ErrContractViolation, e.Err}
}

type step struct {
	action models.Action
	call   func(Sink) // nil for wait
}

// Scheduler drains an action log into a Sink one batch per tick.
// A batch runs through the next wait or the end of the log.
type Scheduler struct {
	steps    []step
	sink     Sink
	clock    Clock
	interval time.Duration

	cursor    int
	state     State
	stop      func()
	cancelled bool
	err       error

	// OnFatal is called once if a handler panics mid-batch.
	OnFatal func(error)

	log *logrus.Entry
}

// New binds every action of log to a Sink call. It fails without
// dispatching anything if log holds an action the Sink cannot apply.
func New(log models.ActionLog, sink Sink, clock Clock, interval time.Duration) (*Scheduler, error) {
	steps := make([]step, len(log))
	for i, a := range log {
		call, err := bind(a)
		if err != nil {
			return nil, &ContractViolationError{Index: i, Action: a, Err: err}
		}
		steps[i] = step{action: a, call: call}
	}
	return &Scheduler{
		steps:    steps,
		sink:     sink,
		clock:    clock,
		interval: interval,
		log:      logger.Log.WithField("component", "replay"),
	}, nil
}

func (s *Scheduler) State() State { return s.state }
func (s *Scheduler) Cursor() int  { return s.cursor }
func (s *Scheduler) Len() int     { return len(s.steps) }

// Err returns the fatal error that halted playback, if any.
func (s *Scheduler) Err() error { return s.err }

// Cancelled reports whether the handle has been invalidated.
func (s *Scheduler) Cancelled() bool { return s.cancelled }

// Start begins ticking. It is a no-op unless the scheduler is Idle.
func (s *Scheduler) Start() {
	if s.cancelled || s.state != Idle {
		return
	}
	s.state = Running
	s.stop = s.clock.Every(s.interval, s.tick)
	s.log.WithFields(logrus.Fields{
		"actions":  len(s.steps),
		"interval": s.interval,
	}).Debug("playback started")
}

// TogglePause switches between Running and Paused.
func (s *Scheduler) TogglePause() {
	if s.cancelled {
		return
	}
	switch s.state {
	case Running:
		s.state = Paused
	case Paused:
		s.state = Running
	default:
		return
	}
	s.log.WithField("cursor", s.cursor).Debugf("playback %s", s.state)
}

// Step drains exactly one batch. Only allowed while Paused.
func (s *Scheduler) Step() error {
	switch {
	case s.cancelled:
		return ErrCancelled
	case s.state == Finished:
		return ErrFinished
	case s.state != Paused:
		return ErrNotPaused
	}
	s.drain()
	return nil
}

// Cancel invalidates the scheduler. Ticks delivered afterwards are ignored.
func (s *Scheduler) Cancel() {
	if s.cancelled {
		return
	}
	s.cancelled = true
	s.stopClock()
	s.log.WithField("cursor", s.cursor).Debug("playback cancelled")
}

func (s *Scheduler) tick() {
	if s.cancelled || s.state != Running {
		return
	}
	s.drain()
}

func (s *Scheduler) drain() {
	defer func() {
		if r := recover(); r != nil {
			s.fail(fmt.Errorf("handler panic: %v", r))
		}
	}()

	for s.cursor < len(s.steps) {
		st := s.steps[s.cursor]
		s.cursor++
		if st.call == nil {
			s.sink.NextTurn()
			break
		}
		st.call(s.sink)
	}

	if s.cursor >= len(s.steps) {
		s.finish()
	}
}

func (s *Scheduler) finish() {
	s.state = Finished
	s.stopClock()
	s.log.WithField("actions", len(s.steps)).Debug("playback finished")
}

func (s *Scheduler) fail(cause error) {
	i := s.cursor - 1
	s.err = &ContractViolationError{Index: i, Action: s.steps[i].action, Err: cause}
	s.finish()
	s.log.WithError(s.err).Error("playback halted")
	if s.OnFatal != nil {
		s.OnFatal(s.err)
	}
}

func (s *Scheduler) stopClock() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}
