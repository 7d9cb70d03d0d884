package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const defaultSecret = "dev-secret-change-me"

type Config struct {
	Port          string
	Env           string
	DatabasePath  string
	AppSecret     string
	SessionTTL    time.Duration
	MarketDataURL string
}

func Load() Config {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		DatabasePath:  getEnv("DUCKDB_PATH", "data_store/smartviz.duckdb"),
		AppSecret:     getEnv("APP_SECRET", defaultSecret),
		SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_SECONDS", 86400)) * time.Second,
		MarketDataURL: getEnv("MARKET_DATA_URL", "https://query1.finance.yahoo.com"),
	}

	if cfg.Env == "production" && cfg.AppSecret == defaultSecret {
		slog.Error("APP_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}
