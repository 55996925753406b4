package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Email provider
	EmailBaseURL     string
	EmailSender      string
	EmailServerToken string
	EmailTimeout     time.Duration

	// Rate Limit
	RateLimitGeneral   int
	RateLimitSubscribe int

	// Server
	ServerPort  string
	MetricsPort string
	BaseURL     string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	cfg.EmailBaseURL = os.Getenv("EMAIL_BASE_URL")
	if cfg.EmailBaseURL == "" {
		missing = append(missing, "EMAIL_BASE_URL")
	}

	cfg.EmailSender = os.Getenv("EMAIL_SENDER")
	if cfg.EmailSender == "" {
		missing = append(missing, "EMAIL_SENDER")
	}

	cfg.EmailServerToken = os.Getenv("EMAIL_SERVER_TOKEN")
	if cfg.EmailServerToken == "" {
		missing = append(missing, "EMAIL_SERVER_TOKEN")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.EmailTimeout = getEnvDuration("EMAIL_TIMEOUT", 10*time.Second)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitSubscribe = getEnvInt("RATE_LIMIT_SUBSCRIBE", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.MetricsPort = getEnvString("METRICS_PORT", "9090")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
