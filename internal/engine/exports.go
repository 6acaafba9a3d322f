package engine

import (
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/tatianab/tactics-game/game"
)

// GamePath is the import path player programs use for the game API.
const GamePath = "github.com/tatianab/tactics-game/game"

// symbols exposes the game package to the interpreter. yaegi keys
// packages by "<import path>/<package name>".
var symbols = interp.Exports{
	GamePath + "/game": {
		"State":          reflect.ValueOf((*game.State)(nil)),
		"Avatar":         reflect.ValueOf((*game.Avatar)(nil)),
		"AvatarStats":    reflect.ValueOf((*game.AvatarStats)(nil)),
		"Card":           reflect.ValueOf((*game.Card)(nil)),
		"CardStats":      reflect.ValueOf((*game.CardStats)(nil)),
		"CardType":       reflect.ValueOf((*game.CardType)(nil)),
		"Creep":          reflect.ValueOf((*game.Creep)(nil)),
		"CreepStats":     reflect.ValueOf((*game.CreepStats)(nil)),
		"CreepType":      reflect.ValueOf((*game.CreepType)(nil)),
		"CreepTrait":     reflect.ValueOf((*game.CreepTrait)(nil)),
		"CreepTraitList": reflect.ValueOf((*game.CreepTraitList)(nil)),
		"IntRange":       reflect.ValueOf((*game.IntRange)(nil)),

		"CardTypes":  reflect.ValueOf(game.CardTypes),
		"CreepTypes": reflect.ValueOf(game.CreepTypes),

		"CreepNone":   reflect.ValueOf(game.CreepNone),
		"CreepCheepy": reflect.ValueOf(game.CreepCheepy),
		"CreepImp":    reflect.ValueOf(game.CreepImp),
		"CreepLion":   reflect.ValueOf(game.CreepLion),
		"CreepFairy":  reflect.ValueOf(game.CreepFairy),
		"CreepMummy":  reflect.ValueOf(game.CreepMummy),
		"CreepDragon": reflect.ValueOf(game.CreepDragon),

		"TraitCoward":        reflect.ValueOf(game.TraitCoward),
		"TraitMagicImmunity": reflect.ValueOf(game.TraitMagicImmunity),
		"TraitWeakToFire":    reflect.ValueOf(game.TraitWeakToFire),
		"TraitSlow":          reflect.ValueOf(game.TraitSlow),
		"TraitRanged":        reflect.ValueOf(game.TraitRanged),

		"CardAttack":      reflect.ValueOf(game.CardAttack),
		"CardMagicArrow":  reflect.ValueOf(game.CardMagicArrow),
		"CardRetreat":     reflect.ValueOf(game.CardRetreat),
		"CardRest":        reflect.ValueOf(game.CardRest),
		"CardPowerAttack": reflect.ValueOf(game.CardPowerAttack),
		"CardFirebolt":    reflect.ValueOf(game.CardFirebolt),
		"CardStun":        reflect.ValueOf(game.CardStun),
		"CardHeal":        reflect.ValueOf(game.CardHeal),
		"CardParry":       reflect.ValueOf(game.CardParry),
	},
}

// allowedStdlib lists the standard packages a program may import. None of
// them reach the host, and math/rand is absent so seeded runs repeat.
var allowedStdlib = []string{
	"math/math",
	"sort/sort",
	"strconv/strconv",
	"strings/strings",
	"unicode/unicode",
}

func stdlibSubset() interp.Exports {
	out := make(interp.Exports, len(allowedStdlib))
	for _, key := range allowedStdlib {
		if syms, ok := stdlib.Symbols[key]; ok {
			out[key] = syms
		}
	}
	return out
}
