package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Calendar CalendarConfig
	Booking  BookingConfig
	CRM      CRMConfig
	Sheets   SheetsConfig
	Email    EmailConfig
	OTEL     OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CalendarConfig holds external calendar configuration
type CalendarConfig struct {
	AccessToken       string
	CalendarID        string
	AllowMockFallback bool
}

// BookingConfig holds slot and booking behavior configuration
type BookingConfig struct {
	DefaultDurationMinutes int
	CacheTTLSeconds        int
}

// CRMConfig holds CRM sink configuration
type CRMConfig struct {
	BaseURL    string
	APIKey     string
	LocationID string
	PipelineID string
	StageID    string
}

// SheetsConfig holds the lead-log spreadsheet configuration
type SheetsConfig struct {
	SpreadsheetID string
	Range         string
	AccessToken   string
}

// EmailConfig holds confirmation email configuration
type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "leadfunnel"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Calendar: CalendarConfig{
			AccessToken:       getEnv("CALENDAR_ACCESS_TOKEN", ""),
			CalendarID:        getEnv("CALENDAR_ID", "primary"),
			AllowMockFallback: getEnvAsBool("CALENDAR_ALLOW_MOCK_FALLBACK", false),
		},
		Booking: BookingConfig{
			DefaultDurationMinutes: getEnvAsInt("BOOKING_DEFAULT_DURATION_MINUTES", 60),
			CacheTTLSeconds:        getEnvAsInt("AVAILABILITY_CACHE_TTL_SECONDS", 60),
		},
		CRM: CRMConfig{
			BaseURL:    getEnv("CRM_BASE_URL", "https://services.leadconnectorhq.com"),
			APIKey:     getEnv("CRM_API_KEY", ""),
			LocationID: getEnv("CRM_LOCATION_ID", ""),
			PipelineID: getEnv("CRM_PIPELINE_ID", ""),
			StageID:    getEnv("CRM_STAGE_ID", ""),
		},
		Sheets: SheetsConfig{
			SpreadsheetID: getEnv("SHEETS_SPREADSHEET_ID", ""),
			Range:         getEnv("SHEETS_RANGE", "Leads!A:J"),
			AccessToken:   getEnv("SHEETS_ACCESS_TOKEN", ""),
		},
		Email: EmailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromEmail:      getEnv("EMAIL_FROM_ADDRESS", "agenda@vetordigital.com.br"),
			FromName:       getEnv("EMAIL_FROM_NAME", "Vetor Digital"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "leadfunnel-api"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
