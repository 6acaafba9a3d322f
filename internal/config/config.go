package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/tatianab/tactics-game/internal/models"
)

// Config holds the application configuration.
type Config struct {
	// GeminiAPIKey enables the tactic assistant. Optional.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	SaveDir      string        `env:"TACTICS_SAVE_DIR" envDefault:".saves"`
	ShareURL     string        `env:"TACTICS_SHARE_URL" envDefault:"https://tactics.example.com/play"`
	TickInterval time.Duration `env:"TACTICS_TICK_INTERVAL" envDefault:"300ms"`

	AvatarHP int `env:"TACTICS_AVATAR_HP" envDefault:"40"`
	AvatarMP int `env:"TACTICS_AVATAR_MP" envDefault:"20"`
	Rounds   int `env:"TACTICS_ROUNDS" envDefault:"10"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// LogFile receives logs while the TUI owns the terminal.
	LogFile string `env:"TACTICS_LOG_FILE" envDefault:"tactics.log"`

	// SpectateAddr, when set, serves playback over websocket.
	SpectateAddr string `env:"TACTICS_SPECTATE_ADDR"`
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.TickInterval <= 0:
		return fmt.Errorf("TACTICS_TICK_INTERVAL must be positive, got %s", c.TickInterval)
	case c.AvatarHP <= 0 || c.AvatarMP < 0:
		return fmt.Errorf("avatar needs positive HP and non-negative MP, got %d/%d", c.AvatarHP, c.AvatarMP)
	case c.Rounds <= 0:
		return fmt.Errorf("TACTICS_ROUNDS must be positive, got %d", c.Rounds)
	}
	return nil
}

// RunConfig returns the game parameters without a fixed seed.
func (c *Config) RunConfig() models.RunConfig {
	return models.RunConfig{AvatarHP: c.AvatarHP, AvatarMP: c.AvatarMP, Rounds: c.Rounds}
}
