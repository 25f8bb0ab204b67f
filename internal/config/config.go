// Package config loads runtime settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds settings shared by the CLI commands.
type Config struct {
	SavePath   string
	Seed       int64
	PlayerName string
	LogLevel   string
}

// FromEnv builds a Config from environment variables, falling back to
// defaults. The default seed is time-based so fresh games differ.
func FromEnv() Config {
	return Config{
		SavePath:   envDefault("TYCOON_SAVE_PATH", "tycoon.db"),
		Seed:       envInt64Default("TYCOON_SEED", time.Now().UnixNano()),
		PlayerName: envDefault("TYCOON_PLAYER_NAME", "Player Inc"),
		LogLevel:   envDefault("TYCOON_LOG_LEVEL", "warn"),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
