// Package gamedata holds the card and creep stat tables.
package gamedata

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tatianab/tactics-game/game"
)

//go:embed stats.yaml
var statsYAML []byte

var (
	Cards  map[game.CardType]game.CardStats
	Creeps map[game.CreepType]game.CreepStats
)

func init() {
	cards, creeps, err := parse(statsYAML)
	if err != nil {
		panic(fmt.Sprintf("gamedata: %v", err))
	}
	Cards, Creeps = cards, creeps
}

type cardEntry struct {
	MP        int    `yaml:"mp"`
	Magic     bool   `yaml:"magic"`
	Offensive bool   `yaml:"offensive"`
	Effect    string `yaml:"effect"`
	Power     [2]int `yaml:"power"`
}

type creepEntry struct {
	MaxHP       int      `yaml:"max_hp"`
	Damage      [2]int   `yaml:"damage"`
	ScoreReward int      `yaml:"score_reward"`
	CardsReward int      `yaml:"cards_reward"`
	Traits      []string `yaml:"traits"`
}

type statsFile struct {
	Cards  map[string]cardEntry  `yaml:"cards"`
	Creeps map[string]creepEntry `yaml:"creeps"`
}

func parse(data []byte) (map[game.CardType]game.CardStats, map[game.CreepType]game.CreepStats, error) {
	var f statsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, err
	}

	cards := make(map[game.CardType]game.CardStats, len(f.Cards))
	for _, typ := range game.CardTypes() {
		e, ok := f.Cards[typ.String()]
		if !ok {
			return nil, nil, fmt.Errorf("no stats for card %s", typ)
		}
		cards[typ] = game.CardStats{
			MP:          e.MP,
			IsMagic:     e.Magic,
			Effect:      e.Effect,
			Power:       game.IntRange(e.Power),
			IsOffensive: e.Offensive,
		}
	}

	creeps := make(map[game.CreepType]game.CreepStats, len(f.Creeps))
	for _, typ := range game.CreepTypes() {
		e, ok := f.Creeps[typ.String()]
		if !ok {
			return nil, nil, fmt.Errorf("no stats for creep %s", typ)
		}
		traits := make(game.CreepTraitList, 0, len(e.Traits))
		for _, name := range e.Traits {
			trait, ok := traitByName[name]
			if !ok {
				return nil, nil, fmt.Errorf("creep %s: unknown trait %q", typ, name)
			}
			traits = append(traits, trait)
		}
		creeps[typ] = game.CreepStats{
			MaxHP:       e.MaxHP,
			Damage:      game.IntRange(e.Damage),
			ScoreReward: e.ScoreReward,
			CardsReward: e.CardsReward,
			Traits:      traits,
		}
	}

	return cards, creeps, nil
}

var traitByName = map[string]game.CreepTrait{
	game.TraitCoward.String():        game.TraitCoward,
	game.TraitMagicImmunity.String(): game.TraitMagicImmunity,
	game.TraitWeakToFire.String():    game.TraitWeakToFire,
	game.TraitSlow.String():          game.TraitSlow,
	game.TraitRanged.String():        game.TraitRanged,
}

// CardStats returns the stats of typ; unknown types get zero stats.
func CardStats(typ game.CardType) game.CardStats { return Cards[typ] }

// CreepStats returns the stats of typ; CreepNone gets zero stats.
func CreepStats(typ game.CreepType) game.CreepStats { return Creeps[typ] }

// CreepByName resolves a creep name as used in actions.
func CreepByName(name string) (game.CreepType, bool) {
	for _, typ := range game.CreepTypes() {
		if typ.String() == name {
			return typ, true
		}
	}
	return game.CreepNone, false
}

// CardByName resolves a card name as used in actions.
func CardByName(name string) (game.CardType, bool) {
	for _, typ := range game.CardTypes() {
		if typ.String() == name {
			return typ, true
		}
	}
	return 0, false
}
