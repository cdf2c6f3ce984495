package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	AppEnv        string
	AppPort       string
	AllowedOrigin string

	BackendURL       string
	BackendTimeout   time.Duration
	BackendRateLimit float64
	BackendBurst     int

	StorageDriver    string
	StorageNamespace string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr     string
	RedisPassword string
}

var (
	ErrMissingBackendURL = errors.New("BACKEND_URL is not set")
	ErrMissingDBSettings = errors.New("postgres storage requires DB_HOST and DB_NAME")
	ErrMissingRedisAddr  = errors.New("redis storage requires REDIS_ADDR")
	ErrUnknownDriver     = errors.New("unknown storage driver")
)

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:        os.Getenv("APP_ENV"),
		AppPort:       envOr("APP_PORT", "8080"),
		AllowedOrigin: envOr("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),

		BackendURL:       os.Getenv("BACKEND_URL"),
		BackendTimeout:   durationOr("BACKEND_TIMEOUT", 15*time.Second),
		BackendRateLimit: floatOr("BACKEND_RATE_LIMIT", 10),
		BackendBurst:     intOr("BACKEND_BURST", 20),

		StorageDriver:    envOr("STORAGE_DRIVER", DriverMemory),
		StorageNamespace: envOr("STORAGE_NAMESPACE", "storefront"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     envOr("DB_PORT", "5432"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Environment variables not loaded properly: %v", err)
	}

	return cfg
}

// Validate checks that the settings required by the selected storage
// driver and the backend collaborator are present.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return ErrMissingBackendURL
	}

	switch c.StorageDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			return ErrMissingDBSettings
		}
	case DriverRedis:
		if c.RedisAddr == "" {
			return ErrMissingRedisAddr
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.StorageDriver)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func floatOr(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func intOr(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
