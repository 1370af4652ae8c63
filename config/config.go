package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort int

	// Database configuration
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Redis configuration
	RedisHost     string
	RedisPassword string
	RedisPort     string

	// Model blob store (badger directory)
	ModelStorePath string

	// External data sources
	ScraperBaseURL    string
	FredBaseURL       string
	FredAPIKey        string
	RateSeriesID      string
	GeocoderBaseURL   string
	GeocoderUserAgent string

	// Pipeline configuration
	Pipeline PipelineConfig

	// Training configuration
	Training TrainingConfig
}

// PipelineConfig holds ingestion and forecasting parameters
type PipelineConfig struct {
	HistStartYear     int // first year of historical scraping for a new market
	HistBatchIncrDays int // size of each historical scrape window
	ActiveListingDays int // lookback window for the for-sale scrape
	YearsToPredict    int // forecast horizon; one projection every 2 years
	ForecastTTLMins   int // forecast cache TTL in minutes
	RefreshHours      int // interval of the background market refresh loop; 0 disables
}

// TrainingConfig holds regressor parameters and thresholds
type TrainingConfig struct {
	Trees        int
	TestFraction float64
	Seed         int64
	MinRows      int // below this, training fails instead of publishing an unmeasurable model
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		ServerPort: getEnvInt("SERVER_PORT", 8000),

		// Database configuration
		DatabaseHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DatabasePort:     getEnvOrDefault("DB_PORT", "5432"),
		DatabaseName:     getEnvOrDefault("DB_NAME", "estate_adviser"),
		DatabaseUser:     getEnvOrDefault("DB_USER", "estate"),
		DatabasePassword: getEnvOrDefault("DB_PASSWORD", "estate123"),

		// Redis configuration
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		ModelStorePath: getEnvOrDefault("MODEL_STORE_PATH", "./data/models"),

		ScraperBaseURL:    getEnvOrDefault("SCRAPER_BASE_URL", "http://localhost:8100"),
		FredBaseURL:       getEnvOrDefault("FRED_BASE_URL", "https://api.stlouisfed.org"),
		FredAPIKey:        os.Getenv("FRED_API_KEY"),
		RateSeriesID:      getEnvOrDefault("RATE_SERIES_ID", "MORTGAGE30US"),
		GeocoderBaseURL:   getEnvOrDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: getEnvOrDefault("GEOCODER_USER_AGENT", "EstateAdviser"),

		Pipeline: PipelineConfig{
			HistStartYear:     getEnvInt("HISTORICAL_START_YEAR", 2015),
			HistBatchIncrDays: getEnvInt("HISTORICAL_BATCH_INCREMENT_DAYS", 90),
			ActiveListingDays: getEnvInt("LOAD_ACTIVE_LISTINGS_DAYS", 30),
			YearsToPredict:    getEnvInt("YEARS_TO_PREDICT", 10),
			ForecastTTLMins:   getEnvInt("FORECAST_CACHE_TTL_MINUTES", 30),
			RefreshHours:      getEnvInt("MARKET_REFRESH_HOURS", 24),
		},

		Training: TrainingConfig{
			Trees:        getEnvInt("TRAIN_TREES", 50),
			TestFraction: getEnvFloat("TRAIN_TEST_FRACTION", 0.2),
			Seed:         int64(getEnvInt("TRAIN_SEED", 42)),
			MinRows:      getEnvInt("TRAIN_MIN_ROWS", 50),
		},
	}
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvFloat gets environment variable as float64 or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var floatValue float64
	if _, err := fmt.Sscanf(value, "%f", &floatValue); err != nil {
		return defaultValue
	}
	return floatValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
