// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default DA endpoints; overridable for mirrors and tests.
const (
	defaultBaseURL   = "https://www.da.gov.ph"
	defaultTargetURL = "https://www.da.gov.ph/price-monitoring/"
)

// AppConfig holds everything the serve and scrape surfaces need.
type AppConfig struct {
	Port               string
	BaseURL            string
	TargetURL          string
	DeliverURL         string // empty disables delivery
	TablesPath         string // empty uses the built-in rule tables
	LogLevel           string
	MinPrice           float64
	HTTPTimeout        time.Duration
	MaxUploadSizeBytes int64
}

// Load reads configuration from the environment. A missing .env file is
// fine; OS environment variables and defaults still apply.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, relying on OS environment and defaults")
	}

	cfg := &AppConfig{
		Port:               getEnv("PORT", "8000"),
		BaseURL:            getEnv("BASE_URL", defaultBaseURL),
		TargetURL:          getEnv("TARGET_URL", defaultTargetURL),
		DeliverURL:         getEnv("DELIVER_URL", ""),
		TablesPath:         getEnv("TABLES_PATH", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MinPrice:           getEnvFloat("MIN_PRICE", 5.0),
		HTTPTimeout:        time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 60)) * time.Second,
		MaxUploadSizeBytes: getEnvInt64("MAX_UPLOAD_SIZE_BYTES", 20<<20),
	}

	if cfg.MinPrice < 0 {
		return nil, fmt.Errorf("MIN_PRICE must not be negative, got %v", cfg.MinPrice)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("invalid integer for %s, using default %d", key, fallback)
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		log.Printf("invalid integer for %s, using default %d", key, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid number for %s, using default %v", key, fallback)
	}
	return fallback
}
