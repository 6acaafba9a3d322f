package replay

import (
	"fmt"

	"github.com/tatianab/tactics-game/internal/models"
)

// Sink applies playback effects to observable state.
// It has one method per action kind; NextTurn is called for every wait.
type Sink interface {
	Log(msg string)
	RedLog(msg string)
	GreenLog(msg string)
	ChangeCardCount(card string, delta int)
	NextRound()
	NextTurn()
	UpdateScore(delta int)
	UpdateHP(delta int)
	UpdateMP(delta int)
	UpdateCreepHP(delta int)
	SetCreep(name string, hp int)
	SetNextCreep(name string, hp int)
	Victory()
	Defeat()
}

// Func adapts fn into a Sink that re-encodes every call as an action.
// Turn ends are reported as models.Wait().
func Func(fn func(models.Action)) Sink { return funcSink(fn) }

type funcSink func(models.Action)

func (f funcSink) Log(msg string)                     { f(models.Log(msg)) }
func (f funcSink) RedLog(msg string)                  { f(models.RedLog(msg)) }
func (f funcSink) GreenLog(msg string)                { f(models.GreenLog(msg)) }
func (f funcSink) ChangeCardCount(card string, d int) { f(models.ChangeCardCount(card, d)) }
func (f funcSink) NextRound()                         { f(models.NextRound()) }
func (f funcSink) NextTurn()                          { f(models.Wait()) }
func (f funcSink) UpdateScore(d int)                  { f(models.UpdateScore(d)) }
func (f funcSink) UpdateHP(d int)                     { f(models.UpdateHP(d)) }
func (f funcSink) UpdateMP(d int)                     { f(models.UpdateMP(d)) }
func (f funcSink) UpdateCreepHP(d int)                { f(models.UpdateCreepHP(d)) }
func (f funcSink) SetCreep(name string, hp int)       { f(models.SetCreep(name, hp)) }
func (f funcSink) SetNextCreep(name string, hp int)   { f(models.SetNextCreep(name, hp)) }
func (f funcSink) Victory()                           { f(models.Victory()) }
func (f funcSink) Defeat()                            { f(models.Defeat()) }

// Tee returns a Sink that forwards every call to each of sinks in order.
func Tee(sinks ...Sink) Sink { return teeSink(sinks) }

type teeSink []Sink

func (t teeSink) each(fn func(Sink)) {
	for _, s := range t {
		fn(s)
	}
}

func (t teeSink) Log(msg string)      { t.each(func(s Sink) { s.Log(msg) }) }
func (t teeSink) RedLog(msg string)   { t.each(func(s Sink) { s.RedLog(msg) }) }
func (t teeSink) GreenLog(msg string) { t.each(func(s Sink) { s.GreenLog(msg) }) }
func (t teeSink) ChangeCardCount(card string, d int) {
	t.each(func(s Sink) { s.ChangeCardCount(card, d) })
}
func (t teeSink) NextRound()          { t.each(func(s Sink) { s.NextRound() }) }
func (t teeSink) NextTurn()           { t.each(func(s Sink) { s.NextTurn() }) }
func (t teeSink) UpdateScore(d int)   { t.each(func(s Sink) { s.UpdateScore(d) }) }
func (t teeSink) UpdateHP(d int)      { t.each(func(s Sink) { s.UpdateHP(d) }) }
func (t teeSink) UpdateMP(d int)      { t.each(func(s Sink) { s.UpdateMP(d) }) }
func (t teeSink) UpdateCreepHP(d int) { t.each(func(s Sink) { s.UpdateCreepHP(d) }) }
func (t teeSink) SetCreep(name string, hp int) {
	t.each(func(s Sink) { s.SetCreep(name, hp) })
}
func (t teeSink) SetNextCreep(name string, hp int) {
	t.each(func(s Sink) { s.SetNextCreep(name, hp) })
}
func (t teeSink) Victory() { t.each(func(s Sink) { s.Victory() }) }
func (t teeSink) Defeat()  { t.each(func(s Sink) { s.Defeat() }) }

// bind resolves a into the Sink call it performs.
// A nil call with a nil error means a is the wait sentinel.
func bind(a models.Action) (func(Sink), error) {
	switch a.Name {
	case models.ActWait:
		if len(a.Args) != 0 {
			return nil, arityError(a, 0)
		}
		return nil, nil
	case models.ActNextRound, models.ActVictory, models.ActDefeat:
		if len(a.Args) != 0 {
			return nil, arityError(a, 0)
		}
		switch a.Name {
		case models.ActNextRound:
			return Sink.NextRound, nil
		case models.ActVictory:
			return Sink.Victory, nil
		}
		return Sink.Defeat, nil

	case models.ActLog, models.ActRedLog, models.ActGreenLog:
		if len(a.Args) != 1 {
			return nil, arityError(a, 1)
		}
		msg, err := a.Str(0)
		if err != nil {
			return nil, err
		}
		switch a.Name {
		case models.ActLog:
			return func(s Sink) { s.Log(msg) }, nil
		case models.ActRedLog:
			return func(s Sink) { s.RedLog(msg) }, nil
		}
		return func(s Sink) { s.GreenLog(msg) }, nil

	case models.ActUpdateScore, models.ActUpdateHP, models.ActUpdateMP, models.ActUpdateCreepHP:
		if len(a.Args) != 1 {
			return nil, arityError(a, 1)
		}
		delta, err := a.Int(0)
		if err != nil {
			return nil, err
		}
		switch a.Name {
		case models.ActUpdateScore:
			return func(s Sink) { s.UpdateScore(delta) }, nil
		case models.ActUpdateHP:
			return func(s Sink) { s.UpdateHP(delta) }, nil
		case models.ActUpdateMP:
			return func(s Sink) { s.UpdateMP(delta) }, nil
		}
		return func(s Sink) { s.UpdateCreepHP(delta) }, nil

	case models.ActChangeCardCount, models.ActSetCreep, models.ActSetNextCreep:
		if len(a.Args) != 2 {
			return nil, arityError(a, 2)
		}
		name, err := a.Str(0)
		if err != nil {
			return nil, err
		}
		n, err := a.Int(1)
		if err != nil {
			return nil, err
		}
		switch a.Name {
		case models.ActChangeCardCount:
			return func(s Sink) { s.ChangeCardCount(name, n) }, nil
		case models.ActSetCreep:
			return func(s Sink) { s.SetCreep(name, n) }, nil
		}
		return func(s Sink) { s.SetNextCreep(name, n) }, nil
	}

	return nil, fmt.Errorf("no handler for action %q", a.Name)
}

func arityError(a models.Action, want int) error {
	return fmt.Errorf("%s: got %d arguments, want %d", a.Name, len(a.Args), want)
}
