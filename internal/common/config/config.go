package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port int `env:"PORT" envDefault:"8080"`
	}

	Discord struct {
		Token string `env:"DISCORD_TOKEN,required,notEmpty"`
		// Empty registers commands globally
		GuildID string `env:"DISCORD_GUILD_ID"`
	}

	Giveaway struct {
		EntryEmoji        string        `env:"GIVEAWAY_ENTRY_EMOJI" envDefault:"🎉"`
		CancelKeyword     string        `env:"GIVEAWAY_CANCEL_KEYWORD" envDefault:"cancel"`
		CountdownInterval time.Duration `env:"GIVEAWAY_COUNTDOWN_INTERVAL" envDefault:"10s"`
		ResolveTimeout    time.Duration `env:"GIVEAWAY_RESOLVE_TIMEOUT" envDefault:"2m"`
	}
}

// Load reads .env (when present) and the process environment into Config.
func Load() (*Config, error) {
	// A missing .env is normal in production, variables come from the environment.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Giveaway.EntryEmoji == "" {
		return fmt.Errorf("GIVEAWAY_ENTRY_EMOJI must not be empty")
	}
	if c.Giveaway.CancelKeyword == "" {
		return fmt.Errorf("GIVEAWAY_CANCEL_KEYWORD must not be empty")
	}
	if c.Giveaway.CountdownInterval <= 0 {
		return fmt.Errorf("GIVEAWAY_COUNTDOWN_INTERVAL must be positive, got %s", c.Giveaway.CountdownInterval)
	}
	if c.Giveaway.ResolveTimeout <= 0 {
		return fmt.Errorf("GIVEAWAY_RESOLVE_TIMEOUT must be positive, got %s", c.Giveaway.ResolveTimeout)
	}
	return nil
}
