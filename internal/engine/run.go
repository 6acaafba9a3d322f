package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/traefik/yaegi/interp"

	"github.com/tatianab/tactics-game/game"
	"github.com/tatianab/tactics-game/internal/logger"
	"github.com/tatianab/tactics-game/internal/models"
	"github.com/tatianab/tactics-game/internal/sim"
)

// Config holds the run parameters. A nil Seed picks a random one.
type Config = models.RunConfig

// DefaultConfig is the standard game.
func DefaultConfig() Config {
	return Config{AvatarHP: 40, AvatarMP: 20, Rounds: 10}
}

var errNoChooseCard = errors.New("can't find proper ChooseCard definition")

// RunSimulation compiles code and plays a full game with it. It never
// fails: a program that does not compile or load is reported as a log
// holding a single redLog action.
func RunSimulation(cfg Config, code string) models.ActionLog {
	log := logger.Log.WithFields(logrus.Fields{
		"component": "engine",
		"rounds":    cfg.Rounds,
	})
	choose, err := compile(code)
	if err != nil {
		log.WithError(err).Info("program rejected")
		return models.ActionLog{models.RedLog(fmt.Sprintf("Error: %v", err))}
	}
	actions := sim.Run(cfg, choose)
	effects, waits := actions.Counts()
	log.WithFields(logrus.Fields{"actions": effects, "turns": waits}).Debug("simulation finished")
	return actions
}

// compile interprets code and returns its ChooseCard function.
func compile(code string) (choose sim.ChooseFunc, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("interpreter panicked: %v", p)
		}
	}()

	i := interp.New(interp.Options{})
	if err := i.Use(stdlibSubset()); err != nil {
		return nil, err
	}
	if err := i.Use(symbols); err != nil {
		return nil, err
	}
	if _, err := i.Eval(code); err != nil {
		return nil, err
	}

	sym := "ChooseCard"
	if pkg := inferPackage(code); pkg != "" {
		sym = pkg + "." + sym
	}
	res, err := i.Eval(sym)
	if err != nil || !res.IsValid() || !res.CanInterface() {
		return nil, errNoChooseCard
	}

	switch fn := res.Interface().(type) {
	case func(game.State) game.CardType:
		return fn, nil
	case func(*game.State) game.CardType:
		return func(s game.State) game.CardType { return fn(&s) }, nil
	}
	return nil, errNoChooseCard
}

// inferPackage returns the package name declared on the first
// non-blank, non-comment line of code.
func inferPackage(code string) string {
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		name, ok := strings.CutPrefix(line, "package ")
		if !ok {
			return ""
		}
		fields := strings.FieldsFunc(name, func(r rune) bool {
			return r == ';' || r == '/' || r == ' ' || r == '\t'
		})
		if len(fields) == 0 {
			return ""
		}
		return fields[0]
	}
	return ""
}
