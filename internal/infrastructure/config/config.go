// internal/infrastructure/config/config.go
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Pipeline paths
	DataRoot         string
	ScheduleInput    string
	ScheduleOutput   string
	MergedOutput     string
	PredictionOutput string

	// Pipeline behavior
	RunInterval   time.Duration
	RetryAttempts int
	RetryDelay    time.Duration

	// MongoDB
	MongoURI string
	MongoDB  string

	// PostgreSQL (airport reference data)
	PostgresURI string

	// Gmail notifications
	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string
	NotifyFrom        string
	NotifyTo          string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		DataRoot:         getEnv("DATA_ROOT", "/app/datax/data"),
		ScheduleInput:    getEnv("SCHEDULE_INPUT", "/app/sample_data/dataRaport.xlsx"),
		ScheduleOutput:   getEnv("SCHEDULE_OUTPUT", "/app/sample_data/dataRaportProcessed.xlsx"),
		MergedOutput:     getEnv("MERGED_OUTPUT", "/app/output/merged_data.xlsx"),
		PredictionOutput: getEnv("PREDICTION_OUTPUT", "/app/output/fuel_co2_predictions_with_routes.csv"),

		RunInterval:   time.Duration(getEnvAsInt("RUN_INTERVAL", 3600)) * time.Second,
		RetryAttempts: getEnvAsInt("RETRY_ATTEMPTS", 5),
		RetryDelay:    time.Duration(getEnvAsInt("RETRY_DELAY", 2)) * time.Second,

		MongoURI: getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "fuelops"),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		NotifyFrom:        getEnv("NOTIFY_FROM", ""),
		NotifyTo:          getEnv("NOTIFY_TO", ""),
	}

	return config, nil
}

// EnsureOutputDirs creates the directories output artifacts are written into
func (c *Config) EnsureOutputDirs() error {
	for _, path := range []string{c.ScheduleOutput, c.MergedOutput, c.PredictionOutput} {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
	}
	return nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
