package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken  string
	DBDSN          string
	AdminChatID    int64
	Environment    string
	MetricsAddr    string
	MigrationsPath string
	SessionTTL     time.Duration
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    os.Getenv("ENV"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = ":9090"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	cfg.SessionTTL = 30 * time.Minute
	if raw := os.Getenv("SESSION_TTL_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("invalid SESSION_TTL_MINUTES: %q", raw)
		}
		cfg.SessionTTL = time.Duration(minutes) * time.Minute
	}

	// Проверяем обязательные поля
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	rawAdmin := os.Getenv("ADMIN_CHAT_ID")
	if rawAdmin == "" {
		return nil, fmt.Errorf("ADMIN_CHAT_ID is required but not set")
	}
	adminID, err := strconv.ParseInt(rawAdmin, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_CHAT_ID: %q", rawAdmin)
	}
	cfg.AdminChatID = adminID

	log.Printf("Config loaded\n")

	return cfg, nil
}
