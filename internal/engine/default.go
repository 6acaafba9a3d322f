package engine

// DefaultProgram is loaded when there is nothing better to show: on first
// start and when a shared link cannot be decoded.
const DefaultProgram = `package tactic

import "github.com/tatianab/tactics-game/game"

func ChooseCard(s *game.State) game.CardType {
	return tactic1(s)
}

// tactic1 always retreats. It never wins a fight, but it walks through
// the whole game without dying.
func tactic1(s *game.State) game.CardType {
	return game.CardRetreat
}

// tactic2 only fights the weakest creeps and runs when wounded.
func tactic2(s *game.State) game.CardType {
	if s.Avatar.HP < 10 {
		return game.CardRetreat
	}
	if s.Creep.Type == game.CreepCheepy {
		return game.CardAttack
	}
	return game.CardRetreat
}
`
