package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	Sheets SheetsConfig
	Email  EmailConfig
	Digest DigestConfig

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBDSN      string

	OpenAIAPIKey string
}

// SheetsConfig selects and configures the spreadsheet backend.
type SheetsConfig struct {
	Backend        string
	SpreadsheetID  string
	ServiceAccount string
}

// EmailConfig holds the SMTP transport and sender identity.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromEmail    string
	FromName     string

	// SubcontractorEmails is the static fallback used when the Contractors
	// tab cannot be read or has no addresses.
	SubcontractorEmails map[string]string
}

// Configured reports whether enough SMTP settings are present to attempt delivery.
func (e EmailConfig) Configured() bool {
	return e.SMTPHost != "" && e.SMTPUser != "" && e.SMTPPassword != ""
}

type DigestConfig struct {
	Schedule string
	Enabled  bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		Port:    getEnv("PORT", "3000"),
		GinMode: getEnv("GIN_MODE", "debug"),
		Sheets: SheetsConfig{
			Backend:        getEnv("SHEETS_BACKEND", "google"),
			SpreadsheetID:  getEnv("GOOGLE_SHEET_ID", ""),
			ServiceAccount: getEnv("GOOGLE_SERVICE_ACCOUNT_KEY", ""),
		},
		Email: EmailConfig{
			SMTPHost:            getEnv("SMTP_HOST", ""),
			SMTPPort:            getEnvInt("SMTP_PORT", 587),
			SMTPUser:            getEnv("SMTP_USER", ""),
			SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
			FromEmail:           getEnv("FROM_EMAIL", "tasks@legendaryhomes.com"),
			FromName:            getEnv("FROM_NAME", "Legendary Homes Task Management"),
			SubcontractorEmails: getEnvEmailMap("SUBCONTRACTOR_EMAILS"),
		},
		Digest: DigestConfig{
			Schedule: getEnv("DIGEST_SCHEDULE", "0 0 7 * * MON"),
			Enabled:  getEnvBool("DIGEST_SCHEDULE_ENABLED", false),
		},
		DBDriver:     getEnv("DB_DRIVER", "sqlite"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "3306"),
		DBUser:       getEnv("DB_USER", "taskuser"),
		DBPassword:   getEnv("DB_PASSWORD", "taskpassword"),
		DBName:       getEnv("DB_NAME", "sitewalk_tasks"),
		DBDSN:        getEnv("DB_DSN", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
	}
}

// ParseEmailMap decodes a JSON object of contractor name to email address.
// Entries with an empty name or address are dropped.
func ParseEmailMap(raw string) (map[string]string, error) {
	result := map[string]string{}
	if strings.TrimSpace(raw) == "" {
		return result, nil
	}

	var decoded map[string]string
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("invalid contractor email map: %w", err)
	}
	for name, email := range decoded {
		name, email = strings.TrimSpace(name), strings.TrimSpace(email)
		if name == "" || email == "" {
			continue
		}
		result[name] = email
	}
	return result, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvEmailMap(key string) map[string]string {
	emails, err := ParseEmailMap(os.Getenv(key))
	if err != nil {
		slog.Warn("ignoring malformed contractor email map", "key", key, "error", err)
		return map[string]string{}
	}
	return emails
}
