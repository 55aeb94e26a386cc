package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the booking tool.
type Config struct {
	App    AppConfig
	Store  StoreConfig
	Logger LoggerConfig
	Auth   AuthConfig
}

// AppConfig controls process level behavior.
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// StoreConfig locates the flat ticket file.
type StoreConfig struct {
	Path string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Output string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	MaxLoginAttempts  int
	BcryptCost        int
	SessionSecret     string
	SessionTTLMinutes int
}

// Load reads configuration from environment variables, applying defaults where possible.
// envFiles are passed to godotenv; a missing default .env is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	maxAttempts, err := strconv.Atoi(getEnv("AUTH_MAX_LOGIN_ATTEMPTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_MAX_LOGIN_ATTEMPTS: %w", err)
	}
	if maxAttempts <= 0 {
		return nil, fmt.Errorf("invalid AUTH_MAX_LOGIN_ATTEMPTS: must be positive, got %d", maxAttempts)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "ticket-booking"),
			Env:     getEnv("APP_ENV", "development"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Store: StoreConfig{
			Path: getEnv("TICKETS_FILE", "tickets.txt"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Output: getEnv("LOG_OUTPUT", "stderr"),
		},
		Auth: AuthConfig{
			AdminUsername:     strings.ToLower(getEnv("AUTH_ADMIN_USERNAME", "admin")),
			AdminPassword:     getEnv("AUTH_ADMIN_PASSWORD", "admin123123"),
			AdminPasswordHash: os.Getenv("AUTH_ADMIN_PASSWORD_HASH"),
			MaxLoginAttempts:  maxAttempts,
			BcryptCost:        getEnvAsInt("AUTH_BCRYPT_COST", 10),
			SessionSecret:     getEnv("AUTH_SESSION_SECRET", "dev-secret"),
			SessionTTLMinutes: getEnvAsInt("AUTH_SESSION_TTL_MINUTES", 480),
		},
	}

	return cfg, nil
}

// SessionTTL returns the configured session token lifetime.
func (a AuthConfig) SessionTTL() time.Duration {
	if a.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(a.SessionTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
