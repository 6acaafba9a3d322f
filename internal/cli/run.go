package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tatianab/tactics-game/internal/engine"
	"github.com/tatianab/tactics-game/internal/logger"
	"github.com/tatianab/tactics-game/internal/models"
)

var (
	runSeed    int64
	runSpeed   time.Duration
	runInstant bool
	runSave    string
	runAvatar  int
	runCode    string
)

func RunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [program.go | -]",
		Short: "Simulate a program and play the result in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			program, err := readProgram(cmd, args)
			if err != nil {
				return err
			}
			avatar := runAvatar
			if runCode != "" {
				shared, linkAvatar, err := decodeShared(runCode)
				if err != nil {
					return err
				}
				program = shared
				if linkAvatar >= 0 && !cmd.Flags().Changed("avatar") {
					avatar = linkAvatar
				}
			}
			if program == "" {
				program = engine.DefaultProgram
			}

			runCfg := cfg.RunConfig()
			if cmd.Flags().Changed("seed") {
				runCfg.Seed = &runSeed
			}
			interval := cfg.TickInterval
			if cmd.Flags().Changed("speed") {
				interval = runSpeed
			}
			if runInstant {
				interval = 0
			}

			rec := &models.Recording{
				Program: program,
				Config:  runCfg,
				Avatar:  avatar,
				Actions: engine.RunSimulation(runCfg, program),
			}
			if runSave != "" {
				if err := rec.Save(runSave); err != nil {
					return fmt.Errorf("save recording: %w", err)
				}
				logger.Log.WithField("name", runSave).Info("recording saved")
			}

			ctx := cmd.Context()
			hub := startSpectators(ctx, cfg)
			b, err := playback(ctx, cmd.OutOrStdout(), rec, interval, hub)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), b)
			return nil
		},
	}
	cmd.Flags().Int64Var(&runSeed, "seed", 0, "Fix the random seed for a reproducible run")
	cmd.Flags().DurationVar(&runSpeed, "speed", 0, "Time between turns (overrides TACTICS_TICK_INTERVAL)")
	cmd.Flags().BoolVar(&runInstant, "instant", false, "Play the whole log without pacing")
	cmd.Flags().StringVar(&runSave, "save", "", "Save the run as a recording with this name")
	cmd.Flags().IntVar(&runAvatar, "avatar", 0, "Avatar stored with the recording")
	cmd.Flags().StringVar(&runCode, "code", "", "Run the program carried by a share token or link")
	return cmd
}

func ReplayCommand() *cobra.Command {
	var speed time.Duration
	var instant bool
	cmd := &cobra.Command{
		Use:   "replay <name>",
		Short: "Play back a saved recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			rec, err := models.LoadRecording(args[0])
			if err != nil {
				return fmt.Errorf("load recording %q: %w", args[0], err)
			}
			interval := cfg.TickInterval
			if cmd.Flags().Changed("speed") {
				interval = speed
			}
			if instant {
				interval = 0
			}

			ctx := cmd.Context()
			hub := startSpectators(ctx, cfg)
			b, err := playback(ctx, cmd.OutOrStdout(), rec, interval, hub)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), b)
			return nil
		},
	}
	cmd.Flags().DurationVar(&speed, "speed", 0, "Time between turns (overrides TACTICS_TICK_INTERVAL)")
	cmd.Flags().BoolVar(&instant, "instant", false, "Play the whole log without pacing")
	return cmd
}

func SessionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List saved recordings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd); err != nil {
				return err
			}
			names, err := models.ListRecordings()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recordings yet. Use `run --save <name>` or ctrl+w in the editor.")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
