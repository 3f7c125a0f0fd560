package bootstrap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	"github.com/jonesrussell/cityvoice/internal/bootstrap"
	"github.com/jonesrussell/cityvoice/internal/config"
	"github.com/jonesrussell/cityvoice/internal/llm"
	"github.com/jonesrussell/cityvoice/internal/telemetry"
)

func llmConfig(mutate func(*config.LLMConfig)) *config.Config {
	cfg := &config.Config{}
	cfg.LLM = config.LLMConfig{
		Providers: config.ProvidersConfig{
			Triage:   config.ProviderGemini,
			Classify: config.ProviderGemini,
			Priority: config.ProviderGemini,
			Summary:  config.ProviderOpenAI,
		},
		RPS:              1,
		Burst:            1,
		BreakerThreshold: 3,
	}
	mutate(&cfg.LLM)
	return cfg
}

func TestSetupProviders_RoutesConfiguredModels(t *testing.T) {
	t.Parallel()

	cfg := llmConfig(func(c *config.LLMConfig) {
		c.GeminiAPIKey = "g-key"
		c.OpenAIAPIKey = "o-key"
		c.GeminiModel = "gemini-2.0-flash"
		c.OpenAIModel = "gpt-4o-mini"
	})

	p, err := bootstrap.SetupProviders(cfg, nil, telemetry.NewPrivateProvider(), infralogger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, map[llm.Aspect]string{
		llm.AspectTriage:   "gemini-2.0-flash",
		llm.AspectClassify: "gemini-2.0-flash",
		llm.AspectPriority: "gemini-2.0-flash",
		llm.AspectSummary:  "gpt-4o-mini",
	}, p.Router.Models())
	assert.Empty(t, p.OpenBreakers())
	assert.Empty(t, p.Degraded())
}

func TestSetupProviders_MissingKeyStaysOffline(t *testing.T) {
	t.Parallel()

	cfg := llmConfig(func(c *config.LLMConfig) {
		c.OpenAIAPIKey = "o-key"
		c.OpenAIModel = "gpt-4o-mini"
	})

	p, err := bootstrap.SetupProviders(cfg, nil, telemetry.NewPrivateProvider(), infralogger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, map[llm.Aspect]string{llm.AspectSummary: "gpt-4o-mini"}, p.Router.Models())
}

func TestSetupProviders_OfflineOnly(t *testing.T) {
	t.Parallel()

	cfg := llmConfig(func(c *config.LLMConfig) {
		c.OfflineOnly = true
		c.GeminiAPIKey = "g-key"
	})

	p, err := bootstrap.SetupProviders(cfg, nil, telemetry.NewPrivateProvider(), infralogger.NewNop())
	require.NoError(t, err)
	assert.Empty(t, p.Router.Models())
}

func TestSetupProviders_OfflineAspect(t *testing.T) {
	t.Parallel()

	cfg := llmConfig(func(c *config.LLMConfig) {
		c.AnthropicAPIKey = "a-key"
		c.AnthropicModel = "claude-3-5-haiku-latest"
		c.Providers = config.ProvidersConfig{
			Triage:   config.ProviderOffline,
			Classify: config.ProviderAnthropic,
			Priority: config.ProviderAnthropic,
			Summary:  config.ProviderOffline,
		}
	})

	p, err := bootstrap.SetupProviders(cfg, nil, telemetry.NewPrivateProvider(), infralogger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, map[llm.Aspect]string{
		llm.AspectClassify: "claude-3-5-haiku-latest",
		llm.AspectPriority: "claude-3-5-haiku-latest",
	}, p.Router.Models())
}

func TestSetupProviders_UnknownProvider(t *testing.T) {
	t.Parallel()

	cfg := llmConfig(func(c *config.LLMConfig) {
		c.Providers.Summary = "llama"
	})

	_, err := bootstrap.SetupProviders(cfg, nil, telemetry.NewPrivateProvider(), infralogger.NewNop())
	require.Error(t, err)
}

func TestOfflinePipeline(t *testing.T) {
	t.Parallel()

	got := bootstrap.OfflinePipeline(nil).Process(t.Context(), "Power outage in the whole street")
	assert.Equal(t, "Electricity", string(got.Category))
	assert.Equal(t, "P1", string(got.Priority))
	assert.Equal(t, llm.ModelOffline, got.Model)
}
