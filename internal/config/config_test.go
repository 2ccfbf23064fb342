package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductionConfig() *Config {
	return &Config{
		Port:             "5000",
		Env:              "production",
		DBPassword:       "a-strong-database-password",
		DBSSLMode:        "require",
		JWTAccessSecret:  "an-access-secret-of-at-least-32-chars",
		JWTRefreshSecret: "a-refresh-secret-of-at-least-32-chars",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid production config", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"fallback access secret in production", func(c *Config) { c.JWTAccessSecret = "fallback-secret-key" }, true},
		{"fallback refresh secret in production", func(c *Config) { c.JWTRefreshSecret = "fallback-refresh-secret-key" }, true},
		{"short access secret in production", func(c *Config) { c.JWTAccessSecret = "short" }, true},
		{"weak db password in production", func(c *Config) { c.DBPassword = "password" }, true},
		{"zero access expiry", func(c *Config) { c.JWTAccessExpiry = 0 }, true},
		{"negative refresh expiry", func(c *Config) { c.JWTRefreshExpiry = -time.Hour }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validProductionConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateDevelopmentAllowsFallbacks(t *testing.T) {
	c := &Config{
		Port:             "5000",
		Env:              "development",
		JWTAccessSecret:  "fallback-secret-key",
		JWTRefreshSecret: "fallback-refresh-secret-key",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
	}
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()
	defer os.Unsetenv("APP_ENV")
	os.Setenv("APP_ENV", "test")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", c.Port)
	assert.Equal(t, "fallback-secret-key", c.JWTAccessSecret)
	assert.Equal(t, "fallback-refresh-secret-key", c.JWTRefreshSecret)
	assert.Equal(t, 15*time.Minute, c.JWTAccessExpiry)
	assert.Equal(t, 168*time.Hour, c.JWTRefreshExpiry)
	assert.Equal(t, "http://localhost:5173", c.FrontendURL)
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.True(t, (&Config{Env: "prod"}).IsProduction())
	assert.False(t, (&Config{Env: "development"}).IsProduction())
	assert.False(t, (&Config{Env: "test"}).IsProduction())
}
