// Package game is the API available to player programs.
//
// A program defines
//
//	func ChooseCard(s *game.State) game.CardType
//
// (a value receiver, func(game.State) game.CardType, works as well) and
// is called once per turn.
package game

// State is the game as seen at the start of the current turn.
type State struct {
	// Turn is the global turn number, starting at 1.
	Turn int

	// Round is the number of the current encounter, starting at 1.
	Round int

	// RoundTurn counts turns inside the current round, starting at 1.
	RoundTurn int

	Score int

	Avatar Avatar

	Creep Creep

	// NextCreep is met once Creep is gone. CreepNone after the last round.
	NextCreep CreepType

	// Deck holds every card type, including ones with zero count.
	Deck map[CardType]Card
}

// Can reports whether playing cardType is legal right now.
func (st *State) Can(cardType CardType) bool {
	card := st.Deck[cardType]
	if card.Count == 0 {
		return false
	}
	return st.Avatar.MP >= card.MP
}

type Creep struct {
	Type CreepType
	HP   int

	// Stun is the number of turns the creep will skip.
	Stun int

	CreepStats
}

func (c *Creep) IsFull() bool    { return c.HP == c.MaxHP }
func (c *Creep) IsStunned() bool { return c.Stun > 0 }

type CreepStats struct {
	MaxHP       int
	Damage      IntRange
	ScoreReward int
	CardsReward int
	Traits      CreepTraitList
}

type Avatar struct {
	HP int
	MP int
	AvatarStats
}

type AvatarStats struct {
	MaxHP int
	MaxMP int
}

type Card struct {
	Type CardType

	// Count is the number of copies left; -1 means unlimited.
	Count int

	CardStats
}

type CardStats struct {
	MP      int
	IsMagic bool

	// Effect describes what Power means for this card.
	Effect string

	// Power is damage for offensive cards and the card-specific amount
	// (healed HP, stunned turns) otherwise.
	Power IntRange

	// IsOffensive cards target the creep.
	IsOffensive bool
}

// IntRange is the inclusive range [Low(), High()].
type IntRange [2]int

func (rng IntRange) Low() int     { return rng[0] }
func (rng IntRange) High() int    { return rng[1] }
func (rng IntRange) IsZero() bool { return rng.Low() == 0 && rng.High() == 0 }

type CardType int

const (
	// Unlimited cards.

	CardAttack CardType = iota
	CardMagicArrow
	CardRetreat
	CardRest

	// Cards collected as creep rewards.

	CardPowerAttack
	CardFirebolt
	CardStun
	CardHeal
	CardParry
)

var cardNames = [...]string{
	CardAttack:      "Attack",
	CardMagicArrow:  "MagicArrow",
	CardRetreat:     "Retreat",
	CardRest:        "Rest",
	CardPowerAttack: "PowerAttack",
	CardFirebolt:    "Firebolt",
	CardStun:        "Stun",
	CardHeal:        "Heal",
	CardParry:       "Parry",
}

// CardTypes lists every card type in declaration order.
func CardTypes() []CardType {
	out := make([]CardType, len(cardNames))
	for i := range cardNames {
		out[i] = CardType(i)
	}
	return out
}

func (t CardType) String() string {
	if t < 0 || int(t) >= len(cardNames) {
		return "CardType(?)"
	}
	return cardNames[t]
}

// IsUnlimited reports whether the card starts with an unlimited count.
func (t CardType) IsUnlimited() bool { return t < CardPowerAttack }

type CreepType int

const (
	CreepNone CreepType = iota
	CreepCheepy
	CreepImp
	CreepLion
	CreepFairy
	CreepMummy
	CreepDragon
)

var creepNames = [...]string{
	CreepNone:   "None",
	CreepCheepy: "Cheepy",
	CreepImp:    "Imp",
	CreepLion:   "Lion",
	CreepFairy:  "Fairy",
	CreepMummy:  "Mummy",
	CreepDragon: "Dragon",
}

// CreepTypes lists every creep type except CreepNone.
func CreepTypes() []CreepType {
	out := make([]CreepType, 0, len(creepNames)-1)
	for i := 1; i < len(creepNames); i++ {
		out = append(out, CreepType(i))
	}
	return out
}

func (t CreepType) String() string {
	if t < 0 || int(t) >= len(creepNames) {
		return "CreepType(?)"
	}
	return creepNames[t]
}

// CreepTraitList is a set of traits.
type CreepTraitList []CreepTrait

func (list CreepTraitList) Has(x CreepTrait) bool {
	for _, trait := range list {
		if trait == x {
			return true
		}
	}
	return false
}

type CreepTrait int

const (
	TraitCoward CreepTrait = iota
	TraitMagicImmunity
	TraitWeakToFire
	TraitSlow
	TraitRanged
)

var traitNames = [...]string{
	TraitCoward:        "Coward",
	TraitMagicImmunity: "MagicImmunity",
	TraitWeakToFire:    "WeakToFire",
	TraitSlow:          "Slow",
	TraitRanged:        "Ranged",
}

func (t CreepTrait) String() string {
	if t < 0 || int(t) >= len(traitNames) {
		return "CreepTrait(?)"
	}
	return traitNames[t]
}
