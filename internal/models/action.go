package models

import (
	"fmt"
	"math"
)

// ActionName identifies the kind of a single playback action.
type ActionName string

// All action kinds the engine can emit.
const (
	ActWait            ActionName = "wait"
	ActLog             ActionName = "log"
	ActRedLog          ActionName = "redLog"
	ActGreenLog        ActionName = "greenLog"
	ActChangeCardCount ActionName = "changeCardCount"
	ActNextRound       ActionName = "nextRound"
	ActUpdateScore     ActionName = "updateScore"
	ActUpdateHP        ActionName = "updateHP"
	ActUpdateMP        ActionName = "updateMP"
	ActUpdateCreepHP   ActionName = "updateCreepHP"
	ActSetCreep        ActionName = "setCreep"
	ActSetNextCreep    ActionName = "setNextCreep"
	ActVictory         ActionName = "victory"
	ActDefeat          ActionName = "defeat"
)

// Action is one effect produced by the engine, or the wait turn boundary.
// Args are positional; their types depend on Name.
type Action struct {
	Name ActionName `yaml:"name" json:"name"`
	Args []any      `yaml:"args,omitempty" json:"args,omitempty"`
}

// ActionLog is the ordered action sequence of a single run.
type ActionLog []Action

// Fields returns the positional wire form: the name followed by the args.
func (a Action) Fields() []any {
	out := make([]any, 0, len(a.Args)+1)
	out = append(out, string(a.Name))
	return append(out, a.Args...)
}

func (a Action) String() string {
	return fmt.Sprintf("%v", a.Fields())
}

// Str returns the i-th argument as a string.
func (a Action) Str(i int) (string, error) {
	if i >= len(a.Args) {
		return "", fmt.Errorf("%s: missing argument %d", a.Name, i)
	}
	s, ok := a.Args[i].(string)
	if !ok {
		return "", fmt.Errorf("%s: argument %d is %T, want string", a.Name, i, a.Args[i])
	}
	return s, nil
}

// Int returns the i-th argument as an int.
// Integral floats are accepted since JSON decoding produces them.
func (a Action) Int(i int) (int, error) {
	if i >= len(a.Args) {
		return 0, fmt.Errorf("%s: missing argument %d", a.Name, i)
	}
	switch v := a.Args[i].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%s: argument %d is not integral: %v", a.Name, i, v)
		}
		return int(v), nil
	}
	return 0, fmt.Errorf("%s: argument %d is %T, want int", a.Name, i, a.Args[i])
}

// Counts reports how many non-wait actions and how many waits the log has.
func (l ActionLog) Counts() (effects, waits int) {
	for _, a := range l {
		if a.Name == ActWait {
			waits++
		} else {
			effects++
		}
	}
	return effects, waits
}

func Wait() Action      { return Action{Name: ActWait} }
func NextRound() Action { return Action{Name: ActNextRound} }
func Victory() Action   { return Action{Name: ActVictory} }
func Defeat() Action    { return Action{Name: ActDefeat} }

func Log(msg string) Action      { return Action{Name: ActLog, Args: []any{msg}} }
func RedLog(msg string) Action   { return Action{Name: ActRedLog, Args: []any{msg}} }
func GreenLog(msg string) Action { return Action{Name: ActGreenLog, Args: []any{msg}} }

func UpdateScore(delta int) Action   { return Action{Name: ActUpdateScore, Args: []any{delta}} }
func UpdateHP(delta int) Action      { return Action{Name: ActUpdateHP, Args: []any{delta}} }
func UpdateMP(delta int) Action      { return Action{Name: ActUpdateMP, Args: []any{delta}} }
func UpdateCreepHP(delta int) Action { return Action{Name: ActUpdateCreepHP, Args: []any{delta}} }

func ChangeCardCount(card string, delta int) Action {
	return Action{Name: ActChangeCardCount, Args: []any{card, delta}}
}

func SetCreep(name string, hp int) Action {
	return Action{Name: ActSetCreep, Args: []any{name, hp}}
}

func SetNextCreep(name string, hp int) Action {
	return Action{Name: ActSetNextCreep, Args: []any{name, hp}}
}
