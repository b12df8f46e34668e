package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the server.
type Config struct {
	DatabaseURL     string
	Port            string
	AnthropicAPIKey string
	AllowedOrigin   string
	RolloverTime    string
}

// Load reads configuration from a .env file and environment variables with
// sane defaults. A missing API key is not fatal; the chat endpoint degrades
// until one is configured.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		Logger.Warn("No .env file loaded, using environment variables: ", err)
	}

	cfg := Config{
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Port:            strings.TrimSpace(os.Getenv("PORT")),
		AnthropicAPIKey: strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
		AllowedOrigin:   strings.TrimSpace(os.Getenv("ALLOWED_ORIGIN")),
		RolloverTime:    strings.TrimSpace(os.Getenv("ROLLOVER_TIME")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "deskbot.db"
	}
	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "http://localhost:5173"
	}

	return cfg
}
