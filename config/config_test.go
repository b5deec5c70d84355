package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 3, cfg.DrawMaxAttempts)
	assert.Equal(t, "vi", cfg.DefaultLocale)
	assert.Equal(t, "luckydraw", cfg.NATSSubjectPrefix)
	assert.Equal(t, 30*time.Second, cfg.MetricsExportInterval)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/draws")
	t.Setenv("DRAW_MAX_ATTEMPTS", "5")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("METRICS_EXPORT_INTERVAL", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5, cfg.DrawMaxAttempts)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 5*time.Second, cfg.MetricsExportInterval)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing database url",
			env:  map[string]string{"ENVIRONMENT": "development", "DATABASE_URL": ""},
			want: "DATABASE_URL is required",
		},
		{
			name: "zero attempts",
			env:  map[string]string{"ENVIRONMENT": "development", "DATABASE_URL": "postgres://x", "DRAW_MAX_ATTEMPTS": "0"},
			want: "DRAW_MAX_ATTEMPTS must be at least 1",
		},
		{
			name: "discord token without channel",
			env:  map[string]string{"ENVIRONMENT": "development", "DATABASE_URL": "postgres://x", "DISCORD_TOKEN": "abc", "DISCORD_CHANNEL_ID": ""},
			want: "DISCORD_CHANNEL_ID is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewTestConfig(t *testing.T) {
	cfg := NewTestConfig()
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, 3, cfg.DrawMaxAttempts)
	assert.NoError(t, cfg.validate())
}
