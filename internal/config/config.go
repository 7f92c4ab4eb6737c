package config

import (
	"os"
	"strconv"
	"strings"
)

// Limits applied to notation when UZU_MAX_DEPTH or UZU_MAX_EVENTS are unset
const (
	DefaultMaxDepth  = 64
	DefaultMaxEvents = 10000
)

// Config holds the application configuration
// Note: the service is stateless - no database or auth secrets needed
type Config struct {
	// Environment
	Environment string
	Port        string

	// Parser
	MaxDepth  int // Maximum group nesting accepted in a pattern
	MaxEvents int // Maximum events a pattern may expand to

	// HTTP
	CORSAllowedOrigins []string

	// Observability
	SentryDSN           string // Sentry DSN for error tracking
	CloudWatchNamespace string // CloudWatch namespace for parse metrics
	CloudWatchEnabled   bool   // Defaults to true in production
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "development")
	return &Config{
		Environment:         env,
		Port:                getEnv("PORT", "8080"),
		MaxDepth:            getEnvInt("UZU_MAX_DEPTH", DefaultMaxDepth),
		MaxEvents:           getEnvInt("UZU_MAX_EVENTS", DefaultMaxEvents),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SentryDSN:           getEnv("SENTRY_DSN", ""),
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "UZU/Parser"),
		CloudWatchEnabled:   getEnvBool("CLOUDWATCH_ENABLED", env == "production"),
	}
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to defaultValue when the variable is unset, malformed or not positive
func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return b
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
