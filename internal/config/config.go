package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageNone     = "none"
)

// Reconcile policies accepted in RECONCILE_POLICY.
const (
	ReconcileRefetch = "refetch"
	ReconcileLocal   = "local"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	API       APIConfig
	Storage   StorageConfig
	DB        DatabaseConfig
	Redis     RedisConfig
	Worker    WorkerConfig
	Reconcile string

	// Origin is the public storefront URL used to build share links. Empty
	// means no browser-like environment is available.
	Origin string
}

// APIConfig contains the backend REST API parameters.
type APIConfig struct {
	BaseURL    string
	Timeout    time.Duration
	LoginPath  string
	AuthRoutes []string
}

// StorageConfig selects the local persistence driver.
type StorageConfig struct {
	Driver string
	Dir    string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	PriceAlertInterval time.Duration
	CartSyncInterval   time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.Origin = strings.TrimSuffix(getEnv("STOREFRONT_ORIGIN", ""), "/")
	cfg.Reconcile = getEnv("RECONCILE_POLICY", ReconcileRefetch)

	cfg.API = APIConfig{
		BaseURL:    getEnv("STOREFRONT_API_URL", "http://localhost:8000/api"),
		LoginPath:  getEnv("LOGIN_PATH", "/login"),
		AuthRoutes: getEnvList("AUTH_ROUTES", []string{"/login", "/register", "/forgot-password", "/reset-password"}),
	}

	cfg.Storage = StorageConfig{
		Driver: getEnv("STORAGE_DRIVER", StorageFile),
		Dir:    getEnv("STORAGE_DIR", ".storefront"),
	}

	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	var err error
	if cfg.API.Timeout, err = parseDurationEnv("API_TIMEOUT", "10s"); err != nil {
		return nil, fmt.Errorf("invalid API_TIMEOUT: %w", err)
	}
	if cfg.Worker.PriceAlertInterval, err = parseDurationEnv("PRICE_ALERT_INTERVAL", "15m"); err != nil {
		return nil, fmt.Errorf("invalid PRICE_ALERT_INTERVAL: %w", err)
	}
	if cfg.Worker.CartSyncInterval, err = parseDurationEnv("CART_SYNC_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid CART_SYNC_INTERVAL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return errors.New("STOREFRONT_API_URL must be set")
	}

	switch c.Storage.Driver {
	case StorageMemory, StorageFile, StorageRedis, StorageNone:
	case StoragePostgres:
		if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
			return errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Reconcile != ReconcileRefetch && c.Reconcile != ReconcileLocal {
		return fmt.Errorf("unknown RECONCILE_POLICY %q", c.Reconcile)
	}
	return nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvList splits a comma-separated variable, dropping empty entries.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
