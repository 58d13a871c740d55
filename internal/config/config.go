package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the journey service
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Redis configuration
	RedisURL    string        `json:"redis_url"`
	RedisPrefix string        `json:"redis_prefix"`
	ArticleTTL  time.Duration `json:"article_ttl"`

	// AI Configuration
	AIApiKey string `json:"ai_api_key"`
	AIModel  string `json:"ai_model"`

	// News sources
	NewsAPIKey   string `json:"news_api_key"`
	EditorialURL string `json:"editorial_url"`

	// Reference verification (all optional; absence disables the path)
	DatasetPath    string `json:"dataset_path"`
	SearchAPIKey   string `json:"search_api_key"`
	SearchEngineID string `json:"search_engine_id"`

	// Pipeline
	TargetPairs int           `json:"target_pairs"`
	RunTimeout  time.Duration `json:"run_timeout"`

	// Journey archive
	ArchivePath string `json:"archive_path"`

	// Logging
	LogLevel string `json:"log_level"`

	// Security
	AdminAPIKey string `json:"admin_api_key"`
}

// Load loads configuration from environment variables
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		// Redis configuration
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPrefix: getEnv("REDIS_PREFIX", "studyhub:"),
		ArticleTTL:  getEnvAsDuration("ARTICLE_TTL", 48*time.Hour),

		// AI Configuration
		AIApiKey: getEnv("AI_API_KEY", ""),
		AIModel:  getEnv("AI_MODEL", "gemini-1.5-flash"),

		// News sources
		NewsAPIKey:   getEnv("NEWS_API_KEY", ""),
		EditorialURL: getEnv("EDITORIAL_URL", "https://www.thehindu.com/opinion/editorial/"),

		// Reference verification
		DatasetPath:    getEnv("PYQ_DATASET_PATH", ""),
		SearchAPIKey:   getEnv("SEARCH_API_KEY", ""),
		SearchEngineID: getEnv("SEARCH_ENGINE_ID", ""),

		// Pipeline
		TargetPairs: getEnvAsInt("TARGET_PAIRS", 5),
		RunTimeout:  getEnvAsDuration("RUN_TIMEOUT", 30*time.Minute),

		// Journey archive
		ArchivePath: getEnv("ARCHIVE_PATH", "./data/journeys"),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Security
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
	}

	return cfg
}

// HasNewsAPI reports whether the structured news-search source is configured.
func (c *Config) HasNewsAPI() bool {
	return c.NewsAPIKey != ""
}

// HasDataset reports whether a local reference dataset path is configured.
func (c *Config) HasDataset() bool {
	return c.DatasetPath != ""
}

// HasSearchAPI reports whether external verification search is configured.
func (c *Config) HasSearchAPI() bool {
	return c.SearchAPIKey != "" && c.SearchEngineID != ""
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
