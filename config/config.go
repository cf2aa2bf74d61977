package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	defaultPort               = "8080"
	defaultDatabasePath       = "windmanager.db"
	defaultAllowedEmailDomain = "wpd.fr"
	defaultRequestTimeout     = 60
)

type Config struct {
	// runtime environment, "development" enables the mock identity and console logging
	Environment string

	Port string

	// database settings
	DatabaseDriver string // "postgres" or "sqlite"
	DatabaseURL    string // postgres DSN (Supabase connection string in production)
	DatabasePath   string // sqlite file path
	SQLLogLevel    string // silent, error, warn, info

	// http settings
	AllowedOrigins []string
	RequestTimeout time.Duration

	// identity settings
	AllowedEmailDomain string
	AdminEmails        []string
	APITokenSecret     string
}

// IsDevelopment reports whether the service runs with development defaults.
func (c Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func LoadConfig() (Config, error) {
	env := strings.ToLower(getEnvOrDefault("APP_ENV", EnvProduction))
	if env != EnvDevelopment && env != EnvProduction {
		return Config{}, fmt.Errorf("invalid APP_ENV '%s': expected %s or %s", env, EnvDevelopment, EnvProduction)
	}

	driver := strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", DriverSQLite))
	dbURL := os.Getenv("DATABASE_URL")
	switch driver {
	case DriverSQLite:
	case DriverPostgres:
		if dbURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when DATABASE_DRIVER is %s", DriverPostgres)
		}
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_DRIVER '%s'", driver)
	}

	sqlLogLevel := strings.ToLower(getEnvOrDefault("SQL_LOG_LEVEL", "warn"))
	switch sqlLogLevel {
	case "silent", "error", "warn", "info":
	default:
		return Config{}, fmt.Errorf("invalid SQL_LOG_LEVEL '%s'", sqlLogLevel)
	}

	admins := getEnvListOrDefault("ADMIN_EMAILS", nil)
	for i, email := range admins {
		admins[i] = strings.ToLower(email)
	}

	cfg := Config{
		Environment:        env,
		Port:               getEnvOrDefault("PORT", defaultPort),
		DatabaseDriver:     driver,
		DatabaseURL:        dbURL,
		DatabasePath:       getEnvOrDefault("DATABASE_PATH", defaultDatabasePath),
		SQLLogLevel:        sqlLogLevel,
		AllowedOrigins:     getEnvListOrDefault("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		RequestTimeout:     time.Duration(getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeout)) * time.Second,
		AllowedEmailDomain: strings.ToLower(strings.TrimPrefix(getEnvOrDefault("ALLOWED_EMAIL_DOMAIN", defaultAllowedEmailDomain), "@")),
		AdminEmails:        admins,
		APITokenSecret:     os.Getenv("API_TOKEN_SECRET"),
	}

	return cfg, nil
}
