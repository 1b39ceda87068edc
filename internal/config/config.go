package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Config - конфигурация приложения, собранная из переменных окружения.
// DatabaseURL пустой означает запуск на in-memory хранилище.
type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    slog.Level
}

// Load читает .env (если есть) и переменные окружения.
func Load(logger *slog.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	return &Config{
		Port:        getEnv("FILMORATE_PORT", "8080"),
		DatabaseURL: os.Getenv("FILMORATE_DATABASE_URL"),
		LogLevel:    parseLogLevel(getEnv("FILMORATE_LOG_LEVEL", "info")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}
