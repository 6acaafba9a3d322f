package replay

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tatianab/tactics-game/internal/models"
)

type recorder struct {
	got models.ActionLog
}

func (r *recorder) sink() Sink {
	return Func(func(a models.Action) { r.got = append(r.got, a) })
}

func (r *recorder) turns() int {
	_, waits := r.got.Counts()
	return waits
}

func newTestScheduler(t *testing.T, log models.ActionLog) (*Scheduler, *ManualClock, *recorder) {
	t.Helper()
	rec := &recorder{}
	clock := NewManualClock()
	s, err := New(log, rec.sink(), clock, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, clock, rec
}

func TestSchedulerBatches(t *testing.T) {
	tests := []struct {
		name    string
		log     models.ActionLog
		batches []models.ActionLog // sink calls observed after each tick
	}{
		{
			name: "two turns",
			log: models.ActionLog{
				models.Log("start"), models.UpdateHP(-5), models.Wait(),
				models.UpdateScore(10), models.Wait(),
			},
			batches: []models.ActionLog{
				{models.Log("start"), models.UpdateHP(-5), models.Wait()},
				{models.UpdateScore(10), models.Wait()},
			},
		},
		{
			name: "consecutive waits",
			log:  models.ActionLog{models.Wait(), models.Wait()},
			batches: []models.ActionLog{
				{models.Wait()},
				{models.Wait()},
			},
		},
		{
			name: "no trailing wait",
			log:  models.ActionLog{models.NextRound(), models.Wait(), models.Victory(), models.UpdateScore(3)},
			batches: []models.ActionLog{
				{models.NextRound(), models.Wait()},
				{models.Victory(), models.UpdateScore(3)},
			},
		},
		{
			name:    "empty log",
			log:     nil,
			batches: []models.ActionLog{nil},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, clock, rec := newTestScheduler(t, test.log)
			if s.State() != Idle {
				t.Fatalf("initial state: have %s, want idle", s.State())
			}
			s.Start()
			for i, want := range test.batches {
				if s.State() != Running {
					t.Fatalf("tick %d: state %s, want running", i+1, s.State())
				}
				rec.got = nil
				clock.Advance()
				if diff := cmp.Diff(want, rec.got); diff != "" {
					t.Errorf("tick %d mismatch (-want +got):\n%s", i+1, diff)
				}
			}
			if s.State() != Finished {
				t.Errorf("final state: have %s, want finished", s.State())
			}
			if clock.Active() != 0 {
				t.Errorf("tick source still active after finish")
			}
			rec.got = nil
			clock.Advance()
			if len(rec.got) != 0 {
				t.Errorf("dispatch after finish: %v", rec.got)
			}
		})
	}
}

func TestSchedulerPauseIsNoop(t *testing.T) {
	log := models.ActionLog{models.Log("a"), models.Wait(), models.Log("b"), models.Wait()}
	s, clock, rec := newTestScheduler(t, log)
	s.Start()
	clock.Advance()
	s.TogglePause()
	cursor := s.Cursor()

	for i := 0; i < 5; i++ {
		clock.Advance()
	}
	if s.Cursor() != cursor || len(rec.got) != 2 {
		t.Fatalf("paused ticks dispatched: cursor %d -> %d, got %v", cursor, s.Cursor(), rec.got)
	}

	s.TogglePause()
	clock.Advance()
	if s.State() != Finished {
		t.Errorf("have %s, want finished", s.State())
	}
	if diff := cmp.Diff(log, rec.got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSchedulerStep(t *testing.T) {
	log := models.ActionLog{
		models.Log("a"), models.Wait(),
		models.Log("b"), models.UpdateMP(-2), models.Wait(),
		models.Defeat(),
	}
	s, _, rec := newTestScheduler(t, log)

	if err := s.Step(); !errors.Is(err, ErrNotPaused) {
		t.Fatalf("Step while idle: have %v, want ErrNotPaused", err)
	}
	s.Start()
	if err := s.Step(); !errors.Is(err, ErrNotPaused) {
		t.Fatalf("Step while running: have %v, want ErrNotPaused", err)
	}
	if len(rec.got) != 0 {
		t.Fatalf("Step outside pause dispatched %v", rec.got)
	}

	s.TogglePause()
	wantCursors := []int{2, 5, 6}
	for i, want := range wantCursors {
		if err := s.Step(); err != nil {
			t.Fatalf("step %d: %v", i+1, err)
		}
		if s.Cursor() != want {
			t.Errorf("step %d: cursor %d, want %d", i+1, s.Cursor(), want)
		}
	}
	if s.State() != Finished {
		t.Errorf("have %s, want finished", s.State())
	}
	if err := s.Step(); !errors.Is(err, ErrFinished) {
		t.Errorf("Step after finish: have %v, want ErrFinished", err)
	}
	if diff := cmp.Diff(log, rec.got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func randomLog(r *rand.Rand) models.ActionLog {
	gen := []func() models.Action{
		models.Wait,
		models.Wait,
		models.NextRound,
		func() models.Action { return models.Log("turn") },
		func() models.Action { return models.UpdateHP(-r.Intn(5)) },
		func() models.Action { return models.UpdateScore(r.Intn(10)) },
		func() models.Action { return models.ChangeCardCount("Stun", 1) },
		func() models.Action { return models.SetCreep("Imp", 5) },
	}
	// An empty log stays nil, like what a sink that saw nothing records.
	var log models.ActionLog
	for n := r.Intn(40); n > 0; n-- {
		log = append(log, gen[r.Intn(len(gen))]())
	}
	return log
}

func TestSchedulerInterleavingsMatchUninterrupted(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		log := randomLog(r)
		effects, waits := log.Counts()

		s, clock, rec := newTestScheduler(t, log)
		s.Start()
		for guard := 0; s.State() != Finished; guard++ {
			if guard > 100*len(log)+100 {
				t.Fatalf("log %d: playback did not finish", i)
			}
			switch r.Intn(4) {
			case 0:
				s.TogglePause()
			case 1:
				if s.State() == Paused {
					if err := s.Step(); err != nil {
						t.Fatalf("log %d: Step: %v", i, err)
					}
				}
			default:
				clock.Advance()
			}
			if s.State() == Paused && r.Intn(3) == 0 {
				s.TogglePause()
			}
		}

		if diff := cmp.Diff(log, rec.got); diff != "" {
			t.Fatalf("log %d mismatch (-want +got):\n%s", i, diff)
		}
		gotEffects := len(rec.got) - rec.turns()
		if gotEffects != effects || rec.turns() != waits {
			t.Errorf("log %d: have %d effects %d turns, want %d and %d",
				i, gotEffects, rec.turns(), effects, waits)
		}
	}
}

func TestSchedulerContractViolation(t *testing.T) {
	tests := []struct {
		name string
		log  models.ActionLog
	}{
		{name: "unknown action", log: models.ActionLog{models.Wait(), {Name: "teleport"}}},
		{name: "missing argument", log: models.ActionLog{{Name: models.ActUpdateHP}}},
		{name: "wrong type", log: models.ActionLog{{Name: models.ActSetCreep, Args: []any{5, "Imp"}}}},
		{name: "args on wait", log: models.ActionLog{{Name: models.ActWait, Args: []any{1}}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := New(test.log, (&recorder{}).sink(), NewManualClock(), time.Second)
			if !errors.Is(err, ErrContractViolation) {
				t.Fatalf("have %v, want ErrContractViolation", err)
			}
			var cv *ContractViolationError
			if !errors.As(err, &cv) || cv.Index != len(test.log)-1 {
				t.Errorf("have %#v, want index %d", cv, len(test.log)-1)
			}
		})
	}
}

type panicSink struct {
	Sink
}

func (panicSink) UpdateHP(int) { panic("boom") }

func TestSchedulerHandlerPanicHalts(t *testing.T) {
	rec := &recorder{}
	clock := NewManualClock()
	log := models.ActionLog{models.Log("a"), models.UpdateHP(-1), models.Log("b"), models.Wait()}
	s, err := New(log, panicSink{rec.sink()}, clock, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	var fatal error
	s.OnFatal = func(err error) { fatal = err }

	s.Start()
	clock.Advance()

	if !errors.Is(s.Err(), ErrContractViolation) || fatal != s.Err() {
		t.Fatalf("have Err %v, OnFatal %v", s.Err(), fatal)
	}
	if s.State() != Finished || clock.Active() != 0 {
		t.Errorf("playback not halted: state %s, active timers %d", s.State(), clock.Active())
	}
	if diff := cmp.Diff(models.ActionLog{models.Log("a")}, rec.got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// leakyClock keeps every registered tick, modelling a tick that was
// already queued when the source was stopped.
type leakyClock struct {
	fns []func()
}

func (c *leakyClock) Every(_ time.Duration, fn func()) func() {
	c.fns = append(c.fns, fn)
	return func() {}
}

func (c *leakyClock) fire() {
	for _, fn := range c.fns {
		fn()
	}
}

func TestControllerRestartInvalidatesPrevious(t *testing.T) {
	rec := &recorder{}
	clock := &leakyClock{}
	c := NewController(rec.sink(), clock, time.Second)

	first, err := c.Restart(models.ActionLog{models.Log("old"), models.Wait(), models.Log("old"), models.Wait()})
	if err != nil {
		t.Fatal(err)
	}
	clock.fire()
	first.TogglePause()

	second, err := c.Restart(models.ActionLog{models.Log("new"), models.Wait()})
	if err != nil {
		t.Fatal(err)
	}
	if !first.Cancelled() || c.Current() != second {
		t.Fatalf("first handle still live")
	}

	rec.got = nil
	first.TogglePause()
	if err := first.Step(); !errors.Is(err, ErrCancelled) {
		t.Errorf("Step on cancelled: have %v, want ErrCancelled", err)
	}
	clock.fire() // delivers the stale tick of first, then second's tick

	want := models.ActionLog{models.Log("new"), models.Wait()}
	if diff := cmp.Diff(want, rec.got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if second.State() != Finished {
		t.Errorf("second: have %s, want finished", second.State())
	}
}

func TestControllerRestartRejectsBadLog(t *testing.T) {
	c := NewController((&recorder{}).sink(), NewManualClock(), time.Second)
	first, err := c.Restart(models.ActionLog{models.Wait()})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Restart(models.ActionLog{{Name: "bogus"}}); !errors.Is(err, ErrContractViolation) {
		t.Fatalf("have %v, want ErrContractViolation", err)
	}
	if !first.Cancelled() || c.Current() != nil {
		t.Errorf("previous scheduler should be cancelled and no scheduler live")
	}
}

func TestLoopRunsToFinish(t *testing.T) {
	rec := &recorder{}
	loop := NewLoop()
	log := models.ActionLog{models.Log("a"), models.Wait(), models.Log("b"), models.Wait()}
	s, err := New(log, rec.sink(), loop, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Start()
	if err := loop.Run(ctx, func() bool { return s.State() == Finished }); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff(log, rec.got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTee(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	s := Tee(a.sink(), b.sink())
	s.SetNextCreep("Lion", 7)
	s.NextTurn()

	want := models.ActionLog{models.SetNextCreep("Lion", 7), models.Wait()}
	if diff := cmp.Diff(want, a.got); diff != "" {
		t.Errorf("first sink (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, b.got); diff != "" {
		t.Errorf("second sink (-want +got):\n%s", diff)
	}
}
