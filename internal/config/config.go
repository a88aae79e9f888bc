package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	KnowledgeDir   string
	OutcomeLogPath string

	// Conversation session storage
	UseMemorySessions bool
	SessionTTL        time.Duration
	RedisAddr         string
	RedisPassword     string
	RedisTLS          bool

	// Leads storage
	DatabaseURL string

	// Generative fallback
	OpenAIAPIKey        string
	OpenAIModel         string
	OpenAIFallbackModel string

	// Booking side effects
	EmailProvider  string // "sendgrid", "ses" or "" to disable
	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string
	OperatorEmail  string
	AWSRegion      string

	// Google Sheets booking log
	SheetsSpreadsheetID   string
	SheetsRange           string
	SheetsCredentialsFile string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		KnowledgeDir:   getEnv("KNOWLEDGE_DIR", "knowledge"),
		OutcomeLogPath: getEnv("OUTCOME_LOG_PATH", "outcomes.ndjson"),

		UseMemorySessions: getEnvAsBool("USE_MEMORY_SESSIONS", false),
		SessionTTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:         getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisTLS:          getEnvAsBool("REDIS_TLS", false),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIFallbackModel: getEnv("OPENAI_FALLBACK_MODEL", ""),

		EmailProvider:  getEnv("EMAIL_PROVIDER", ""),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", ""),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "SunSweeper"),
		OperatorEmail:  getEnv("OPERATOR_EMAIL", ""),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),

		SheetsSpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetsRange:           getEnv("SHEETS_RANGE", "Bookings!A:L"),
		SheetsCredentialsFile: getEnv("SHEETS_CREDENTIALS_FILE", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
