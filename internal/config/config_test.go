package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		ServerPort:   8080,
		DatabasePath: "./test.db",
		JWTSecret:    "a-development-secret",
		TokenTTL:     24 * time.Hour,
		LogLevel:     "info",
		AppEnv:       "development",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:        "port out of range low",
			mutate:      func(c *Config) { c.ServerPort = 0 },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "port out of range high",
			mutate:      func(c *Config) { c.ServerPort = 70000 },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "missing secret",
			mutate:      func(c *Config) { c.JWTSecret = "" },
			wantErr:     true,
			errorString: "JWT_SECRET must be set",
		},
		{
			name: "short secret in production",
			mutate: func(c *Config) {
				c.AppEnv = "production"
				c.JWTSecret = "short"
			},
			wantErr:     true,
			errorString: "at least 32 bytes in production",
		},
		{
			name:        "empty database path",
			mutate:      func(c *Config) { c.DatabasePath = "" },
			wantErr:     true,
			errorString: "database path cannot be empty",
		},
		{
			name:        "non-positive ttl",
			mutate:      func(c *Config) { c.TokenTTL = 0 },
			wantErr:     true,
			errorString: "invalid token TTL",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.ServerPort = -1
	cfg.JWTSecret = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port -1")
	assert.Contains(t, err.Error(), "JWT_SECRET must be set")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 720*time.Hour, cfg.TokenTTL)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("port", func(t *testing.T) {
		t.Setenv("PORT", "abc")
		_, err := Load()
		assert.ErrorContains(t, err, "invalid PORT")
	})
	t.Run("ttl", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		t.Setenv("TOKEN_TTL", "forever")
		_, err := Load()
		assert.ErrorContains(t, err, "invalid TOKEN_TTL")
	})
}
