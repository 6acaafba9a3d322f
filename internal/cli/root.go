// Package cli defines the tactics command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tatianab/tactics-game/internal/config"
	"github.com/tatianab/tactics-game/internal/logger"
	"github.com/tatianab/tactics-game/internal/models"
	"github.com/tatianab/tactics-game/internal/spectate"
)

var (
	spectateAddr string
	logLevel     string
)

// GetRootCommand returns the root command with every subcommand attached.
func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "tactics",
		Short:         "Write a ChooseCard program and watch it fight",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.PersistentFlags().StringVar(&spectateAddr, "spectate", "", "Serve playback to websocket spectators on this address (overrides TACTICS_SPECTATE_ADDR)")
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	rootCommand.AddCommand(PlayCommand())
	rootCommand.AddCommand(RunCommand())
	rootCommand.AddCommand(ReplayCommand())
	rootCommand.AddCommand(ShareCommand())
	rootCommand.AddCommand(SuggestCommand())
	rootCommand.AddCommand(SessionsCommand())
	return rootCommand
}

// loadConfig reads the environment, applies persistent flags and sets up
// logging to stderr.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if spectateAddr != "" {
		cfg.SpectateAddr = spectateAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	models.SaveDir = cfg.SaveDir
	logger.Init(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	return cfg, nil
}

// startSpectators serves a hub when an address is configured. The hub
// stops with ctx.
func startSpectators(ctx context.Context, cfg *config.Config) *spectate.Hub {
	if cfg.SpectateAddr == "" {
		return nil
	}
	hub := spectate.NewHub()
	go func() {
		if err := hub.ListenAndServe(ctx, cfg.SpectateAddr); err != nil {
			logger.Log.WithError(err).Error("spectator endpoint stopped")
		}
	}()
	return hub
}

// readProgram loads a program from path, stdin for "-", or returns ""
// when no path is given.
func readProgram(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	if args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read program from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read program: %w", err)
	}
	return string(data), nil
}
