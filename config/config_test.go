package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://:memory:")
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example ,")
	t.Setenv("LOGIN_RATE_PER_MINUTE", "30")
	t.Setenv("AWS_S3_BUCKET", "reports-bucket")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite://:memory:", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 30, cfg.LoginRatePerMinute)
	assert.Equal(t, 5, cfg.LoginRateBurst)
	assert.True(t, cfg.ReportArchiveEnabled())
	assert.False(t, cfg.HasAdminBootstrap())
}

func TestLoadInvalidTTL(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://:memory:")
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("SESSION_TTL", "tomorrow")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DatabaseURL:        "sqlite://:memory:",
			SessionSecret:      testSecret,
			SessionTTL:         time.Hour,
			LoginRatePerMinute: 10,
			LoginRateBurst:     5,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }, "DATABASE_URL"},
		{"short secret", func(c *Config) { c.SessionSecret = "short" }, "SESSION_SECRET"},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }, "SESSION_TTL"},
		{"zero rate", func(c *Config) { c.LoginRatePerMinute = 0 }, "LOGIN_RATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), err.Error())
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{GoEnv: "production"}
	assert.True(t, cfg.IsProduction())

	cfg.GoEnv = "development"
	assert.False(t, cfg.IsProduction())
}

func TestGetSetConfig(t *testing.T) {
	original := GetConfig()
	defer SetConfig(original)

	cfg := &Config{Port: "9999"}
	SetConfig(cfg)
	assert.Same(t, cfg, GetConfig())
}
