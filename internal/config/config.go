package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	CatalogURL   string
	PageCount    int
	FetchTimeout time.Duration
	OutputPath   string
	JSONPath     string
	LogLevel     string
	MetricsPort  string
	DatabaseURL  string
	RedisURL     string
	LockTTL      time.Duration
}

func Load() *Config {
	// .env at the project root, then the working directory
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()
	return &Config{
		CatalogURL:   getEnv("CATALOG_URL", "https://shopvnb.com/vot-cau-long.html"),
		PageCount:    getEnvInt("PAGE_COUNT", 30),
		FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 5*time.Second),
		OutputPath:   getEnv("OUTPUT_PATH", "./file-local/merged_data.xlsx"),
		JSONPath:     getEnv("JSON_PATH", "./file-local/data.json"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		MetricsPort:  os.Getenv("METRICS_PORT"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		LockTTL:      getEnvDuration("LOCK_TTL", 10*time.Minute),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return d
}

func getEnvDuration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil && dur > 0 {
			return dur
		}
	}
	return d
}
