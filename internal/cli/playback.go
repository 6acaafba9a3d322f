package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tatianab/tactics-game/internal/board"
	"github.com/tatianab/tactics-game/internal/logger"
	"github.com/tatianab/tactics-game/internal/models"
	"github.com/tatianab/tactics-game/internal/replay"
	"github.com/tatianab/tactics-game/internal/spectate"
)

// playback paces rec.Actions onto a board that prints its log to out.
// interval 0 plays without pacing.
func playback(ctx context.Context, out io.Writer, rec *models.Recording, interval time.Duration, hub *spectate.Hub) (*board.Board, error) {
	b := board.New(rec.Config)
	b.OnLine = func(l board.Line) {
		style := logStyle
		switch l.Kind {
		case board.Red:
			style = redStyle
		case board.Green:
			style = greenStyle
		}
		fmt.Fprintln(out, style.Render(l.Text))
	}

	var sink replay.Sink = b
	if hub != nil {
		sink = replay.Tee(b, hub.Sink())
	}

	log := logger.Log.WithFields(logrus.Fields{
		"component": "cli",
		"actions":   len(rec.Actions),
		"interval":  interval,
	})
	log.Debug("playback")

	if interval <= 0 {
		clock := replay.NewManualClock()
		s, err := replay.New(rec.Actions, sink, clock, 0)
		if err != nil {
			return nil, err
		}
		s.Start()
		for s.State() != replay.Finished {
			if err := ctx.Err(); err != nil {
				return b, err
			}
			clock.Advance()
		}
		return b, s.Err()
	}

	loop := replay.NewLoop()
	ctrl := replay.NewController(sink, loop, interval)
	ctrl.OnFatal = func(err error) {
		log.WithError(err).Error("playback halted")
	}
	s, err := ctrl.Restart(rec.Actions)
	if err != nil {
		return nil, err
	}
	defer ctrl.Stop()
	if err := loop.Run(ctx, func() bool { return s.State() == replay.Finished }); err != nil {
		return b, err
	}
	return b, s.Err()
}

func printSummary(out io.Writer, b *board.Board) {
	result := redStyle.Render("Game over")
	if b.Won {
		result = greenStyle.Render("Victory")
	}
	fmt.Fprintln(out, titleStyle.Render("RESULT")+" "+result)
	fmt.Fprintf(out, "Score %d  Turns %d  Rounds %d/%d  HP %d\n",
		b.Score, b.Turn, b.Round, b.Config().Rounds, b.HP)
}
