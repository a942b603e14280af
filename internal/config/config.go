package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// Playback
	MaxLives     int
	SaveDebounce time.Duration

	// Email notifications
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	ReportEmail  string
	EmailDebug   bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./lessonclash.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		MaxLives:     getEnvInt("MAX_LIVES", 5),
		SaveDebounce: time.Duration(getEnvInt("SAVE_DEBOUNCE_MS", 1000)) * time.Millisecond,

		AWSRegion:    getEnv("AWS_REGION", "eu-west-2"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "LessonClash"),
		ReportEmail:  getEnv("REPORT_EMAIL", ""),
		EmailDebug:   getEnv("EMAIL_DEBUG", "false") == "true",
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
