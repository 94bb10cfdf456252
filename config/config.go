package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"

	AuthModeDemo     = "demo"
	AuthModeHardened = "hardened"
)

type Config struct {
	// Database Configuration
	StoreDriver string
	MongoURI    string
	DBName      string

	// Token cache; disabled when RedisAddr is empty
	RedisAddr     string
	TokenCacheTTL time.Duration

	// Security Configuration
	AuthMode  string
	JWTSecret string
	TokenTTL  time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Server Configuration
	Port            string
	Env             string
	CORSAllowOrigin string
}

// LoadConfig reads .env and environments/.env.<GO_ENV> when present, then
// builds the configuration from the process environment. Variables already
// set in the environment win over both files.
func LoadConfig() (*Config, error) {
	env := getEnvOrDefault("GO_ENV", "development")
	envFile := filepath.Join("environments", fmt.Sprintf(".env.%s", env))

	for _, file := range []string{envFile, ".env"} {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading env file %s: %w", file, err)
		}
	}

	return FromEnv()
}

// FromEnv builds and validates the configuration without touching env files.
func FromEnv() (*Config, error) {
	tokenCacheTTL, err := getDurationOrDefault("TOKEN_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	tokenTTL, err := getDurationOrDefault("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		// Database Configuration
		StoreDriver: strings.ToLower(getEnvOrDefault("STORE_DRIVER", StoreDriverMongo)),
		MongoURI:    getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnvOrDefault("DB_NAME", "catalog"),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", ""),
		TokenCacheTTL: tokenCacheTTL,

		// Security Configuration
		AuthMode:  strings.ToLower(getEnvOrDefault("AUTH_MODE", AuthModeDemo)),
		JWTSecret: getEnvOrDefault("JWT_SECRET", ""),
		TokenTTL:  tokenTTL,

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		// Server Configuration
		Port:            getEnvOrDefault("PORT", "8080"),
		Env:             getEnvOrDefault("GO_ENV", "development"),
		CORSAllowOrigin: getEnvOrDefault("CORS_ALLOW_ORIGIN", "*"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required when STORE_DRIVER=mongo")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want mongo or memory)", c.StoreDriver)
	}

	switch c.AuthMode {
	case AuthModeDemo:
	case AuthModeHardened:
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_MODE=hardened")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q (want demo or hardened)", c.AuthMode)
	}

	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.TokenCacheTTL <= 0 {
		return errors.New("TOKEN_CACHE_TTL must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
