package bootstrap

import (
	"fmt"
	"slices"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/jonesrussell/cityvoice/infrastructure/circuitbreaker"
	infrahttp "github.com/jonesrussell/cityvoice/infrastructure/http"
	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	"github.com/jonesrussell/cityvoice/internal/config"
	"github.com/jonesrussell/cityvoice/internal/llm"
	"github.com/jonesrussell/cityvoice/internal/telemetry"
	"github.com/jonesrussell/cityvoice/internal/triage"
)

// Providers holds one guarded completer per configured provider.
type Providers struct {
	Router   *llm.Router
	breakers map[string]*circuitbreaker.Breaker
}

// OpenBreakers lists providers whose circuit is not closed, sorted.
func (p *Providers) OpenBreakers() []string {
	var open []string
	for name, b := range p.breakers {
		if b.State() != circuitbreaker.StateClosed {
			open = append(open, name+"="+b.State().String())
		}
	}
	slices.Sort(open)
	return open
}

// Degraded is a health probe; it returns a message while any breaker is open.
func (p *Providers) Degraded() string {
	open := p.OpenBreakers()
	if len(open) == 0 {
		return ""
	}
	return "remote models unavailable, using keyword fallback: " + strings.Join(open, ", ")
}

// SetupProviders builds the per-aspect router. Offline-only mode, or an aspect
// routed to "offline", leaves the aspect without a remote model. A provider
// without an API key is skipped with a warning.
func SetupProviders(
	cfg *config.Config,
	cache *goredis.Client,
	tp *telemetry.Provider,
	log infralogger.Logger,
) (*Providers, error) {
	p := &Providers{Router: llm.NewRouter(), breakers: make(map[string]*circuitbreaker.Breaker)}
	if cfg.LLM.OfflineOnly {
		log.Info("Offline-only mode, remote models disabled")
		return p, nil
	}

	guarded := make(map[string]llm.Completer)
	for _, aspect := range llm.Aspects() {
		name := cfg.LLM.Providers.For(aspect)
		if name == config.ProviderOffline {
			continue
		}

		completer, ok := guarded[name]
		if !ok {
			base, err := newProvider(cfg, name)
			if err != nil {
				return nil, err
			}
			if base == nil {
				log.Warn("Provider has no API key, aspect stays offline",
					infralogger.String("provider", name),
					infralogger.Aspect(string(aspect)),
				)
				continue
			}
			completer = p.guard(cfg, name, base, cache, tp, log)
			guarded[name] = completer
		}
		p.Router.Route(aspect, completer)
	}

	for aspect, model := range p.Router.Models() {
		log.Info("Remote model routed", infralogger.Aspect(string(aspect)), infralogger.String("model", model))
	}
	return p, nil
}

// guard wraps a provider as cache(breaker(rate limit(timeout(provider)))).
func (p *Providers) guard(
	cfg *config.Config,
	name string,
	base llm.Completer,
	cache *goredis.Client,
	tp *telemetry.Provider,
	log infralogger.Logger,
) llm.Completer {
	breaker := circuitbreaker.New(circuitbreaker.Config{
		Name:             name,
		FailureThreshold: cfg.LLM.BreakerThreshold,
		Timeout:          cfg.LLM.BreakerTimeout,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			tp.SetBreakerState(name, int(to))
			log.Warn("Provider circuit state changed",
				infralogger.String("provider", name),
				infralogger.String("from", from.String()),
				infralogger.String("to", to.String()),
			)
		},
	})
	p.breakers[name] = breaker
	tp.SetBreakerState(name, int(circuitbreaker.StateClosed))

	limiter := rate.NewLimiter(rate.Limit(cfg.LLM.RPS), cfg.LLM.Burst)

	var c llm.Completer = llm.WithTimeout(base, cfg.LLM.Timeout)
	c = llm.WithRateLimit(c, limiter)
	c = llm.WithBreaker(c, breaker)
	return llm.WithCache(c, cache, llm.CacheOptions{
		TTL:    cfg.Redis.CacheTTL,
		Accept: triage.Accept,
		Logger: log,
	})
}

// newProvider returns nil when the provider has no API key.
func newProvider(cfg *config.Config, name string) (llm.Completer, error) {
	switch name {
	case config.ProviderGemini:
		if cfg.LLM.GeminiAPIKey == "" {
			return nil, nil
		}
		client := infrahttp.NewClient(&infrahttp.ClientConfig{Timeout: cfg.LLM.Timeout + time.Second})
		return llm.NewGemini(llm.GeminiConfig{APIKey: cfg.LLM.GeminiAPIKey, Model: cfg.LLM.GeminiModel}, client), nil
	case config.ProviderOpenAI:
		if cfg.LLM.OpenAIAPIKey == "" {
			return nil, nil
		}
		return llm.NewOpenAI(llm.OpenAIConfig{APIKey: cfg.LLM.OpenAIAPIKey, Model: cfg.LLM.OpenAIModel}), nil
	case config.ProviderAnthropic:
		if cfg.LLM.AnthropicAPIKey == "" {
			return nil, nil
		}
		return llm.NewAnthropic(llm.AnthropicConfig{APIKey: cfg.LLM.AnthropicAPIKey, Model: cfg.LLM.AnthropicModel}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", name)
	}
}
