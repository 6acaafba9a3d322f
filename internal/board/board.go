// Package board holds the observable game state that playback writes to.
package board

import (
	"sort"

	"github.com/tatianab/tactics-game/game"
	"github.com/tatianab/tactics-game/internal/gamedata"
	"github.com/tatianab/tactics-game/internal/models"
)

// LineKind is the colour of a log line.
type LineKind int

const (
	Plain LineKind = iota
	Red
	Green
)

type Line struct {
	Kind LineKind
	Text string
}

type CreepView struct {
	Name  string
	HP    int
	MaxHP int
}

// Board is a replay.Sink. It is not safe for concurrent use; the
// scheduler drives it from a single goroutine.
type Board struct {
	cfg models.RunConfig

	Turn  int
	Round int
	Score int
	HP    int
	MP    int
	Creep CreepView
	Next  CreepView
	Cards map[string]int
	Lines []Line
	Won   bool
	Lost  bool

	// OnLine, if set, is called for every appended log line.
	OnLine func(Line)
}

// New returns a board reset for cfg.
func New(cfg models.RunConfig) *Board {
	b := &Board{}
	b.Reset(cfg)
	return b
}

// Reset restores the state seen before the first action of a run.
func (b *Board) Reset(cfg models.RunConfig) {
	b.cfg = cfg
	b.Turn = 0
	b.Round = 0
	b.Score = 0
	b.HP = cfg.AvatarHP
	b.MP = cfg.AvatarMP
	b.Creep = creepView(game.CreepCheepy.String())
	b.Next = creepView(game.CreepImp.String())
	b.Cards = make(map[string]int)
	for _, typ := range game.CardTypes() {
		if typ.IsUnlimited() {
			b.Cards[typ.String()] = -1
		} else {
			b.Cards[typ.String()] = 0
		}
	}
	b.Lines = nil
	b.Won = false
	b.Lost = false
}

func creepView(name string) CreepView {
	v := CreepView{Name: name}
	if typ, ok := gamedata.CreepByName(name); ok {
		v.MaxHP = gamedata.CreepStats(typ).MaxHP
		v.HP = v.MaxHP
	}
	return v
}

// Config returns the configuration of the current run.
func (b *Board) Config() models.RunConfig { return b.cfg }

// Finished reports whether the run reached victory or defeat.
func (b *Board) Finished() bool { return b.Won || b.Lost }

// CardNames returns card names in deck order.
func (b *Board) CardNames() []string {
	names := make([]string, 0, len(b.Cards))
	for name := range b.Cards {
		names = append(names, name)
	}
	order := func(name string) int {
		if typ, ok := gamedata.CardByName(name); ok {
			return int(typ)
		}
		return len(names)
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, oj := order(names[i]), order(names[j])
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
	return names
}

func (b *Board) addLine(kind LineKind, text string) {
	l := Line{Kind: kind, Text: text}
	b.Lines = append(b.Lines, l)
	if b.OnLine != nil {
		b.OnLine(l)
	}
}

func (b *Board) Log(msg string)      { b.addLine(Plain, msg) }
func (b *Board) RedLog(msg string)   { b.addLine(Red, msg) }
func (b *Board) GreenLog(msg string) { b.addLine(Green, msg) }

func (b *Board) ChangeCardCount(card string, delta int) {
	if b.Cards[card] == -1 {
		return
	}
	b.Cards[card] += delta
}

// NextRound advances the round counter, never past the configured count.
func (b *Board) NextRound() {
	if b.Round < b.cfg.Rounds {
		b.Round++
	}
}

func (b *Board) NextTurn() { b.Turn++ }

func (b *Board) UpdateScore(delta int)   { b.Score += delta }
func (b *Board) UpdateHP(delta int)      { b.HP += delta }
func (b *Board) UpdateMP(delta int)      { b.MP += delta }
func (b *Board) UpdateCreepHP(delta int) { b.Creep.HP += delta }

func (b *Board) SetCreep(name string, hp int) {
	b.Creep = CreepView{Name: name, HP: hp, MaxHP: hp}
}

func (b *Board) SetNextCreep(name string, hp int) {
	b.Next = CreepView{Name: name, HP: hp, MaxHP: hp}
}

func (b *Board) Victory() { b.Won = true }
func (b *Board) Defeat()  { b.Lost = true }
