// Package sim plays a full game against a card-choosing function and
// records every observable effect as an action log.
package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/tatianab/tactics-game/game"
	"github.com/tatianab/tactics-game/internal/gamedata"
	"github.com/tatianab/tactics-game/internal/models"
)

const (
	maxBadMoves   = 10
	maxRoundTurns = 50
)

// ChooseFunc is the player's decision for one turn.
type ChooseFunc func(game.State) game.CardType

// Run simulates a game. The result always ends at a game-over condition.
func Run(cfg models.RunConfig, choose ChooseFunc) models.ActionLog {
	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	r := &runner{
		cfg:    cfg,
		choose: choose,
		rng:    rand.New(rand.NewSource(seed)),
	}
	return r.run()
}

type runner struct {
	cfg      models.RunConfig
	choose   ChooseFunc
	rng      *rand.Rand
	state    game.State
	out      models.ActionLog
	rewards  []game.CardType
	badMoves int
}

func (r *runner) emit(a ...models.Action) { r.out = append(r.out, a...) }

func (r *runner) logf(format string, args ...any) {
	r.emit(models.Log(fmt.Sprintf(format, args...)))
}

func (r *runner) redLogf(format string, args ...any) {
	r.emit(models.RedLog(fmt.Sprintf(format, args...)))
}

func (r *runner) greenLogf(format string, args ...any) {
	r.emit(models.GreenLog(fmt.Sprintf(format, args...)))
}

func (r *runner) run() models.ActionLog {
	r.setup()
	r.emit(models.NextRound())
	for {
		switch {
		case r.badMoves >= maxBadMoves:
			r.redLogf("Game over: too many illegal moves!")
			return r.out
		case r.state.RoundTurn >= maxRoundTurns:
			r.redLogf("Game over: round lasted for too long!")
			return r.out
		case r.state.Round > r.cfg.Rounds:
			r.victory()
			return r.out
		}
		if stop := r.turn(); stop {
			return r.out
		}
	}
}

func (r *runner) setup() {
	stats := game.AvatarStats{MaxHP: r.cfg.AvatarHP, MaxMP: r.cfg.AvatarMP}
	r.state = game.State{
		Turn:  1,
		Round: 1,
		Avatar: game.Avatar{
			HP:          stats.MaxHP,
			MP:          stats.MaxMP,
			AvatarStats: stats,
		},
		Deck: make(map[game.CardType]game.Card),
	}
	r.state.Creep = newCreep(r.pickCreep(1))
	r.state.NextCreep = r.pickCreep(2)

	for _, typ := range game.CardTypes() {
		card := game.Card{Type: typ, CardStats: gamedata.CardStats(typ)}
		if typ.IsUnlimited() {
			card.Count = -1
		} else {
			r.rewards = append(r.rewards, typ)
		}
		r.state.Deck[typ] = card
	}
}

func newCreep(typ game.CreepType) game.Creep {
	stats := gamedata.CreepStats(typ)
	return game.Creep{Type: typ, HP: stats.MaxHP, CreepStats: stats}
}

func (r *runner) pickCreep(round int) game.CreepType {
	switch {
	case round > r.cfg.Rounds:
		return game.CreepNone
	case round == r.cfg.Rounds:
		return game.CreepDragon
	case round == 1:
		return game.CreepCheepy
	case round == 2:
		return game.CreepImp
	}

	roll := r.rng.Intn(100)
	if r.state.Round <= 5 {
		switch {
		case roll >= 90:
			return game.CreepFairy
		case roll >= 50:
			return game.CreepLion
		case roll >= 30:
			return game.CreepImp
		}
		return game.CreepCheepy
	}
	switch {
	case roll >= 70:
		return game.CreepMummy
	case roll >= 50:
		return game.CreepFairy
	case roll >= 30:
		return game.CreepLion
	case roll >= 10:
		return game.CreepImp
	}
	return game.CreepCheepy
}

func (r *runner) roll(rng game.IntRange) int {
	if rng.IsZero() {
		return 0
	}
	return rng.Low() + r.rng.Intn(rng.High()-rng.Low()+1)
}

// turn plays one turn and reports whether the game is over.
func (r *runner) turn() (stop bool) {
	r.logf("--- Turn %d ---", r.state.Turn)
	defer func() {
		r.state.Turn++
		r.state.RoundTurn++
		r.emit(models.Wait())
	}()

	cardType, err := r.ask()
	if err != nil {
		r.redLogf("Error: %v", err)
		return true
	}

	creep := &r.state.Creep
	r.playCard(cardType)
	if creep.HP <= 0 {
		r.creepDefeated()
		return false
	}

	parried := cardType == game.CardParry
	slowRetreat := cardType == game.CardRetreat && creep.Traits.Has(game.TraitSlow)
	cowardly := creep.IsFull() && creep.Traits.Has(game.TraitCoward)
	if !creep.IsStunned() && !slowRetreat && !cowardly {
		r.creepAttack(parried)
		if parried && creep.HP <= 0 {
			r.creepDefeated()
			return false
		}
	}
	if cowardly && parried {
		r.redLogf("Tried to parry, but the enemy was not attacking")
	}
	if creep.Stun > 0 {
		creep.Stun--
	}

	if r.state.Avatar.HP <= 0 {
		r.emit(models.Defeat())
		r.redLogf("Game over: avatar has been defeated!")
		return true
	}
	if cardType == game.CardRetreat {
		r.logf("Retreated from %s!", creep.Type)
		r.nextRound()
	}
	return false
}

// ask calls the player with a private copy of the state.
func (r *runner) ask() (typ game.CardType, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("ChooseCard panicked: %v", p)
		}
	}()
	st := r.state
	st.Deck = make(map[game.CardType]game.Card, len(r.state.Deck))
	for k, v := range r.state.Deck {
		st.Deck[k] = v
	}
	st.Creep.Traits = append(game.CreepTraitList(nil), r.state.Creep.Traits...)
	return r.choose(st), nil
}

func (r *runner) changeCards(typ game.CardType, delta int) {
	card := r.state.Deck[typ]
	card.Count += delta
	r.state.Deck[typ] = card
	r.emit(models.ChangeCardCount(typ.String(), delta))
}

func (r *runner) damageCreep(typ game.CardType, dmg int) {
	r.state.Creep.HP -= dmg
	r.emit(models.UpdateCreepHP(-dmg))
	r.logf("Your %s deals %d damage", typ, dmg)
}

func (r *runner) playCard(typ game.CardType) {
	card, ok := r.state.Deck[typ]
	if !ok || card.Count == 0 {
		r.redLogf("Tried to use unavailable card %s", typ)
		r.badMoves++
		return
	}
	if card.Count != -1 {
		r.changeCards(typ, -1)
	}
	avatar := &r.state.Avatar
	if card.MP != 0 {
		if avatar.MP < card.MP {
			r.redLogf("Not enough mana to use %s", typ)
			r.badMoves++
			return
		}
		avatar.MP -= card.MP
		r.emit(models.UpdateMP(-card.MP))
	}

	creep := &r.state.Creep
	switch typ {
	case game.CardAttack, game.CardPowerAttack:
		r.damageCreep(typ, r.roll(card.Power))
	case game.CardMagicArrow, game.CardFirebolt:
		if creep.Traits.Has(game.TraitMagicImmunity) {
			r.redLogf("%s failed: %s is immune to magic", typ, creep.Type)
			return
		}
		dmg := r.roll(card.Power)
		if typ == game.CardFirebolt && creep.Traits.Has(game.TraitWeakToFire) {
			dmg *= 2
		}
		r.damageCreep(typ, dmg)
	case game.CardStun:
		creep.Stun = r.roll(card.Power)
		r.logf("%s is stunned for %d turns", creep.Type, creep.Stun)
	case game.CardRest, game.CardHeal:
		healed := healAmount(r.roll(card.Power), avatar.HP, avatar.MaxHP)
		avatar.HP += healed
		r.emit(models.UpdateHP(healed))
		r.greenLogf("Got %d HP from %s", healed, typ)
	}
}

// healAmount clamps a heal roll so HP never exceeds max.
func healAmount(roll, current, max int) int {
	if current+roll > max {
		return max - current
	}
	return roll
}

func (r *runner) creepAttack(parried bool) {
	creep := &r.state.Creep
	dmg := r.roll(creep.Damage)
	if parried {
		if !creep.Traits.Has(game.TraitRanged) {
			creep.HP -= dmg
			r.emit(models.UpdateCreepHP(-dmg))
			r.logf("%d damage is reflected back to %s", dmg, creep.Type)
			return
		}
		r.redLogf("Failed to parry a ranged attack")
	}
	r.state.Avatar.HP -= dmg
	r.emit(models.UpdateHP(-dmg))
	r.redLogf("%s deals %d damage", creep.Type, dmg)
}

func (r *runner) creepDefeated() {
	creep := &r.state.Creep
	r.state.Score += creep.ScoreReward
	r.greenLogf("%s is defeated! %d score points received", creep.Type, creep.ScoreReward)
	r.emit(models.UpdateScore(creep.ScoreReward))

	for i := 0; i < creep.CardsReward; i++ {
		typ := r.rewards[r.rng.Intn(len(r.rewards))]
		r.greenLogf("Collected %s card", typ)
		r.changeCards(typ, 1)
	}
	r.nextRound()
}

func (r *runner) nextRound() {
	r.state.Round++
	r.state.RoundTurn = 0
	r.state.Creep = newCreep(r.state.NextCreep)
	r.state.NextCreep = r.pickCreep(r.state.Round + 1)
	r.emit(
		models.SetCreep(r.state.Creep.Type.String(), r.state.Creep.HP),
		models.SetNextCreep(r.state.NextCreep.String(), gamedata.CreepStats(r.state.NextCreep).MaxHP),
		models.NextRound(),
	)
}

func (r *runner) victory() {
	bonus := r.state.Avatar.HP
	r.state.Score += bonus
	r.emit(models.Victory(), models.UpdateScore(bonus))
	r.greenLogf("Got %d survival bonus points", bonus)
}
