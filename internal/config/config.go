package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, sourced from the environment with
// an optional .env overlay for local runs.
type Config struct {
	DiscordToken      string `env:"DISCORD_TOKEN,required"`
	CommandPrefix     string `env:"COMMAND_PREFIX" envDefault:"!"`
	StoragePath       string `env:"STORAGE_PATH" envDefault:"datastore.json"`
	InitSlashCommands bool   `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
}

func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
