// internal/config/config.go
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	API         APIConfig
	Catalog     CatalogConfig
	State       StateConfig
	MockAPI     MockAPIConfig
	Log         LogConfig
}

type APIConfig struct {
	// BaseURL is the root of the storefront REST API, e.g.
	// http://localhost:8000/api
	BaseURL string
	// RateLimit caps outgoing requests per second; 0 disables the limiter.
	RateLimit float64
	RateBurst int
}

type CatalogConfig struct {
	PageSize int
}

type StateConfig struct {
	// Dir holds the persisted session blob.
	Dir string
}

type MockAPIConfig struct {
	Port         string
	Host         string
	JWTSecret    string
	AccessTTL    int // in hours
	RefreshTTL   int // in hours
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		API: APIConfig{
			BaseURL:   getEnv("API_BASE_URL", "http://localhost:8000/api"),
			RateLimit: getEnvAsFloat("API_RATE_LIMIT", 0),
			RateBurst: getEnvAsInt("API_RATE_BURST", 1),
		},
		Catalog: CatalogConfig{
			PageSize: getEnvAsInt("CATALOG_PAGE_SIZE", 20),
		},
		State: StateConfig{
			Dir: getEnv("STATE_DIR", defaultStateDir()),
		},
		MockAPI: MockAPIConfig{
			Port:         getEnv("MOCKAPI_PORT", "8000"),
			Host:         getEnv("MOCKAPI_HOST", "localhost"),
			JWTSecret:    getEnv("MOCKAPI_JWT_SECRET", "dev-secret-change-me"),
			AccessTTL:    getEnvAsInt("MOCKAPI_ACCESS_TTL", 1),
			RefreshTTL:   getEnvAsInt("MOCKAPI_REFRESH_TTL", 168),
			ReadTimeout:  getEnvAsInt("MOCKAPI_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("MOCKAPI_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("MOCKAPI_IDLE_TIMEOUT", 60),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "storefront")
	}
	return ".storefront"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
