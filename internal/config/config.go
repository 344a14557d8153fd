package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingCredential is returned when a required credential is absent from the environment.
var ErrMissingCredential = errors.New("missing credential")

// Inventory sources.
const (
	SourceSupabase = "supabase"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Session stores.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds all configuration for the application.
type Config struct {
	GeminiAPIKey    string
	GeminiBaseURL   string
	ModelID         string
	SupabaseURL     string
	SupabaseKey     string
	TableName       string
	InventorySource string
	DatabaseURL     string
	DBPath          string
	SessionStore    string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	SessionTTL      time.Duration
	RequestTimeout  time.Duration
	APIPort         string
	LogLevel        slog.Level
	LogFormat       string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or one of its parents, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	// The Gemini key is checked before anything else so a missing key halts startup
	// before any database or model client is built.
	geminiKey := getEnv("GEMINI_API_KEY", "")
	if geminiKey == "" {
		return nil, missing("GEMINI_API_KEY")
	}

	cfg := &Config{
		GeminiAPIKey:    geminiKey,
		GeminiBaseURL:   strings.TrimRight(getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"), "/"),
		ModelID:         getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		SupabaseURL:     strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseKey:     getEnv("SUPABASE_KEY", ""),
		TableName:       getEnv("INVENTORY_TABLE", "Product Data"),
		InventorySource: strings.ToLower(getEnv("INVENTORY_SOURCE", SourceSupabase)),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DBPath:          getEnv("DB_PATH", "./data/inventory.db"),
		SessionStore:    strings.ToLower(getEnv("SESSION_STORE", StoreMemory)),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		APIPort:         getEnv("API_PORT", "8501"),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	switch cfg.InventorySource {
	case SourceSupabase:
		if cfg.SupabaseURL == "" {
			return nil, missing("SUPABASE_URL")
		}
		if cfg.SupabaseKey == "" {
			return nil, missing("SUPABASE_KEY")
		}
	case SourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, missing("DATABASE_URL")
		}
	case SourceSQLite:
		dataDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	default:
		return nil, fmt.Errorf("INVENTORY_SOURCE must be one of supabase, postgres, sqlite: got %q", cfg.InventorySource)
	}

	if cfg.TableName == "" {
		return nil, fmt.Errorf("INVENTORY_TABLE cannot be empty")
	}

	switch cfg.SessionStore {
	case StoreMemory, StoreRedis:
	default:
		return nil, fmt.Errorf("SESSION_STORE must be one of memory, redis: got %q", cfg.SessionStore)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB must be a valid integer: %w", err)
	}
	cfg.RedisDB = redisDB

	if cfg.SessionTTL, err = parseDuration("SESSION_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = parseDuration("REQUEST_TIMEOUT", "0s"); err != nil {
		return nil, err
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json: got %q", cfg.LogFormat)
	}

	return cfg, nil
}

// loadDotEnv loads the first .env found in the working directory or up to five parents.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func missing(key string) error {
	return fmt.Errorf("%w: %s is not set; add it to the environment or your .env file", ErrMissingCredential, key)
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s cannot be negative", key)
	}
	return d, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
