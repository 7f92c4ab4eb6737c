package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "PORT", "SENTRY_DSN", "UZU_MAX_DEPTH", "UZU_MAX_EVENTS", "CORS_ALLOWED_ORIGINS", "CLOUDWATCH_NAMESPACE", "CLOUDWATCH_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, DefaultMaxEvents, cfg.MaxEvents)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "UZU/Parser", cfg.CloudWatchNamespace)
	assert.False(t, cfg.CloudWatchEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("UZU_MAX_DEPTH", "16")
	t.Setenv("UZU_MAX_EVENTS", "500")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://strudel.cc, http://localhost:3000,")
	t.Setenv("CLOUDWATCH_ENABLED", "")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 16, cfg.MaxDepth)
	assert.Equal(t, 500, cfg.MaxEvents)
	assert.Equal(t, []string{"https://strudel.cc", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.CloudWatchEnabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name  string
		depth string
		want  int
	}{
		{"not a number", "deep", DefaultMaxDepth},
		{"zero", "0", DefaultMaxDepth},
		{"negative", "-3", DefaultMaxDepth},
		{"valid", "8", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("UZU_MAX_DEPTH", tt.depth)
			assert.Equal(t, tt.want, Load().MaxDepth)
		})
	}

	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CLOUDWATCH_ENABLED", "false")
	assert.False(t, Load().CloudWatchEnabled)
}
