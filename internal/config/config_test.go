package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/cityvoice/infrastructure/sse"
	"github.com/jonesrussell/cityvoice/internal/config"
	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/llm"
	"github.com/jonesrussell/cityvoice/internal/scheduler"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
service:
  port: 9090
  debug: true
database:
  driver: sqlite3
  path: /var/lib/cityvoice/cityvoice.db
auth:
  jwt_secret: s3cret
  north_password: north
llm:
  providers:
    summary: anthropic
  rps: 5
media:
  jpeg_quality: 70
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Service.Port)
	assert.True(t, cfg.Service.Debug)
	assert.Equal(t, "/var/lib/cityvoice/cityvoice.db", cfg.Database.Path)
	assert.Equal(t, "north", cfg.Auth.ZonePasswords()[domain.ZoneNorth])
	assert.Empty(t, cfg.Auth.ZonePasswords()[domain.ZoneAdmin])
	assert.Equal(t, config.ProviderAnthropic, cfg.LLM.Providers.For(llm.AspectSummary))
	assert.Equal(t, config.ProviderGemini, cfg.LLM.Providers.For(llm.AspectTriage))
	assert.InDelta(t, 5.0, cfg.LLM.RPS, 0.001)
	assert.Equal(t, 70, cfg.Media.Quality)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "from-env")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "cityvoice", cfg.Service.Name)
	assert.Equal(t, 8080, cfg.Service.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, llm.DefaultGeminiModel, cfg.LLM.GeminiModel)
	assert.Equal(t, llm.DefaultOpenAIModel, cfg.LLM.OpenAIModel)
	assert.Equal(t, config.ProviderOpenAI, cfg.LLM.Providers.Summary)
	assert.Equal(t, 85, cfg.Media.Quality)
	assert.Equal(t, 1280, cfg.Media.MaxWidth)
	assert.Equal(t, scheduler.DefaultSchedule, cfg.Keywords.ReloadSchedule)
	assert.Equal(t, "cityvoice_complaints", cfg.Elasticsearch.Index)
	assert.False(t, cfg.Elasticsearch.Enabled)
	assert.Equal(t, 20, cfg.Service.TriagePerMinute)
	assert.False(t, cfg.Feed.Enabled)
	assert.Equal(t, sse.DefaultMaxClients, cfg.Feed.MaxClients)
	assert.Equal(t, sse.DefaultHeartbeatInterval, cfg.Feed.HeartbeatInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("LLM_OFFLINE_ONLY", "true")
	t.Setenv("REDIS_ADDRESS", "redis:6379")
	t.Setenv("AUTHORITY_ADMIN_PASSWORD", "admin")

	cfg, err := config.Load(writeConfig(t, "service:\n  port: 8081\n"))
	require.NoError(t, err)

	assert.True(t, cfg.LLM.OfflineOnly)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, "admin", cfg.Auth.ZonePasswords()[domain.ZoneAdmin])
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing jwt secret", content: "service:\n  port: 8080\n"},
		{name: "unknown provider", content: "auth:\n  jwt_secret: x\nllm:\n  providers:\n    triage: llama\n"},
		{name: "unknown driver", content: "auth:\n  jwt_secret: x\ndatabase:\n  driver: mysql\n"},
		{name: "bad log level", content: "auth:\n  jwt_secret: x\nlogging:\n  level: loud\n"},
		{name: "bad quality", content: "auth:\n  jwt_secret: x\nmedia:\n  jpeg_quality: 150\n"},
		{name: "bad port", content: "auth:\n  jwt_secret: x\nservice:\n  port: 70000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}
}
