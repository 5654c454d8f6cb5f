package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// PTV timetable API configuration
	PTV PTVConfig

	// Gigs API configuration
	Gigs GigsConfig

	// Disk cache configuration
	Cache CacheConfig

	// CORS configuration for the JSON API
	CORS CORSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port          string
	Environment   string // development, staging, production
	LogLevel      string // debug, info, warn, error
	LogBufferSize int    // entries kept for /api/logs
	TemplatesGlob string
}

// PTVConfig holds PTV timetable API credentials and endpoint
type PTVConfig struct {
	BaseURL string
	DevID   string
	APIKey  string // SECRET - used for request signing, never sent
}

// GigsConfig holds the live music gigs API configuration
type GigsConfig struct {
	BaseURL  string
	Location string
}

// CacheConfig holds disk cache configuration
type CacheConfig struct {
	Dir string
	TTL time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8089"),
			Environment:   getEnv("ENVIRONMENT", "development"),
			LogLevel:      getEnv("LOG_LEVEL", "info"),
			LogBufferSize: getEnvAsInt("LOG_BUFFER_SIZE", 1000),
			TemplatesGlob: getEnv("TEMPLATES_GLOB", "web/templates/*.html"),
		},
		PTV: PTVConfig{
			BaseURL: getEnv("PTV_BASE_URL", "https://timetableapi.ptv.vic.gov.au"),
			DevID:   getEnv("DEV_ID", ""),
			APIKey:  getEnv("API_KEY", ""),
		},
		Gigs: GigsConfig{
			BaseURL:  getEnv("GIGS_BASE_URL", "https://api.lml.live"),
			Location: getEnv("GIGS_LOCATION", "melbourne"),
		},
		Cache: CacheConfig{
			Dir: getEnv("CACHE_DIR", "cache"),
			TTL: time.Duration(getEnvAsInt("CACHE_TTL_HOURS", 24)) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.PTV.DevID == "" {
		return fmt.Errorf("DEV_ID is required")
	}

	if c.PTV.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL_HOURS must be positive")
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
