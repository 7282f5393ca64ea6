package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// RemoteConfig holds the connection settings for the remote catalog service
type RemoteConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// LocalStoreConfig holds the embedded key-value store configuration
type LocalStoreConfig struct {
	Path string
}

// JWTConfig holds JWT configuration for the admin auth boundary
type JWTConfig struct {
	SigningKey string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// CacheConfig holds the freshness windows for the query caches
type CacheConfig struct {
	SearchFreshness   time.Duration
	CategoryFreshness time.Duration
	PopularFreshness  time.Duration
}

// Config holds all configuration
type Config struct {
	ServiceName string
	Server      ServerConfig
	Remote      RemoteConfig
	LocalStore  LocalStoreConfig
	JWT         JWTConfig
	Log         LogConfig
	Metrics     MetricsConfig
	Cache       CacheConfig
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not returning error as .env file is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	config := &Config{
		ServiceName: serviceName,
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Remote: RemoteConfig{
			BaseURL: getEnv("CATALOG_BASE_URL", "http://localhost:54321"),
			APIKey:  getEnv("CATALOG_API_KEY", ""),
			Timeout: getEnvAsDuration("CATALOG_TIMEOUT", 10*time.Second),
		},
		LocalStore: LocalStoreConfig{
			Path: getEnv("LOCAL_STORE_PATH", "toolfinder.db"),
		},
		JWT: JWTConfig{
			SigningKey: getEnv("JWT_SIGNING_KEY", "defaultsecretkey"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", serviceName),
		},
		Cache: CacheConfig{
			SearchFreshness:   getEnvAsDuration("CACHE_SEARCH_FRESHNESS", 5*time.Minute),
			CategoryFreshness: getEnvAsDuration("CACHE_CATEGORY_FRESHNESS", 24*time.Hour),
			PopularFreshness:  getEnvAsDuration("CACHE_POPULAR_FRESHNESS", 5*time.Minute),
		},
	}

	return config, nil
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.String("catalog_base_url", c.Remote.BaseURL),
		zap.String("local_store_path", c.LocalStore.Path),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
