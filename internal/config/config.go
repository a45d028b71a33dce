package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingBotToken is returned by LoadBotConfig when TELEGRAM_BOT_TOKEN is unset.
var ErrMissingBotToken = errors.New("TELEGRAM_BOT_TOKEN is not set, check your .env")

type Config struct {
	Port        string
	DatabaseURL string
	StoragePath string
	BaseURL     string
	DBLogLevel  string

	// Relay bot
	TelegramBotToken string
	TelegramAPIURL   string
	BackendURL       string

	// Data migration source
	SQLitePath string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:             getEnv("PORT", "8000"),
		DatabaseURL:      getEnv("DATABASE_URL", "./videos.db"),
		StoragePath:      getEnv("STORAGE_PATH", "./storage/videos"),
		BaseURL:          strings.TrimRight(getEnv("BASE_URL", "http://localhost:8000"), "/"),
		DBLogLevel:       getEnv("DB_LOG_LEVEL", "warn"),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIURL:   strings.TrimRight(getEnv("TELEGRAM_API_URL", "https://api.telegram.org"), "/"),
		BackendURL:       strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8000"), "/"),
		SQLitePath:       getEnv("SQLITE_PATH", "./videos.db"),
	}
}

// LoadBotConfig loads the configuration and fails if the bot credential is absent.
func LoadBotConfig() (*Config, error) {
	cfg := LoadConfig()
	if cfg.TelegramBotToken == "" {
		return nil, ErrMissingBotToken
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
