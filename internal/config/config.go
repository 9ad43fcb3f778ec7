package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment    string `mapstructure:"ENV"`
	ListenAddr     string `mapstructure:"LISTEN_ADDR"`
	DBDSN          string `mapstructure:"DB_DSN"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`
	SeedDir        string `mapstructure:"SEED_DIR"`
	TelegramToken  string `mapstructure:"TELEGRAM_TOKEN"`
	TelegramChatID int64  `mapstructure:"TELEGRAM_CHAT_ID"`
}

// Load reads configuration from the environment, with .env as an optional
// overlay. Every field has a working default except the Telegram pair,
// which simply disables notifications when unset. DB_DSN is optional too:
// without it the engine runs purely in memory.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err == nil {
		log.Println("Loaded configuration from .env file")
	}

	cfg := &Config{
		Environment:    os.Getenv("ENV"),
		ListenAddr:     os.Getenv("LISTEN_ADDR"),
		DBDSN:          os.Getenv("DB_DSN"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		SeedDir:        os.Getenv("SEED_DIR"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}
	if cfg.SeedDir == "" {
		cfg.SeedDir = "seed"
	}

	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID must be an integer: %w", err)
		}
		cfg.TelegramChatID = chatID
	}

	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	return cfg, nil
}

// NotificationsEnabled reports whether the Telegram side channel is
// configured.
func (c *Config) NotificationsEnabled() bool {
	return c.TelegramToken != ""
}

// MirrorEnabled reports whether the Postgres booking-log mirror is
// configured.
func (c *Config) MirrorEnabled() bool {
	return c.DBDSN != ""
}
