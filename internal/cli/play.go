package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tatianab/tactics-game/internal/engine"
	"github.com/tatianab/tactics-game/internal/logger"
	"github.com/tatianab/tactics-game/internal/replay"
	"github.com/tatianab/tactics-game/internal/tui"
)

var playCode string

func PlayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [program.go]",
		Short: "Open the interactive editor and board",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// The alternate screen owns the terminal from here on.
			f, err := logger.InitFile(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
			if err != nil {
				return err
			}
			defer f.Close()

			opts := tui.Options{
				Run:      cfg.RunConfig(),
				Interval: cfg.TickInterval,
				ShareURL: cfg.ShareURL,
			}
			opts.Program, err = readProgram(cmd, args)
			if err != nil {
				return err
			}
			if playCode != "" {
				program, avatar, err := decodeShared(playCode)
				if err != nil {
					logger.Log.WithError(err).Warn("shared program rejected, loading the default")
					opts.Program = engine.DefaultProgram
					opts.Status = "The shared program could not be decoded; the default program is loaded."
				} else {
					opts.Program = program
					opts.Avatar = max(avatar, 0)
				}
			}

			ctx := cmd.Context()
			eng, err := engine.NewEngine(ctx, cfg.GeminiAPIKey)
			if err != nil {
				return err
			}
			defer eng.Close()
			opts.Engine = eng

			if hub := startSpectators(ctx, cfg); hub != nil {
				opts.Extra = []replay.Sink{hub.Sink()}
			}
			return tui.Run(opts)
		},
	}
	cmd.Flags().StringVar(&playCode, "code", "", "Load the program carried by a share token or link")
	return cmd
}

func SuggestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [hint...]",
		Short: "Ask Gemini for a starter tactic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			eng, err := engine.NewEngine(cmd.Context(), cfg.GeminiAPIKey)
			if err != nil {
				return err
			}
			defer eng.Close()

			program, err := eng.SuggestTactic(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), program)
			return nil
		},
	}
}
