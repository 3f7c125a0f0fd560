// Package config loads the CityVoice service configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	infraconfig "github.com/jonesrussell/cityvoice/infrastructure/config"
	infraes "github.com/jonesrussell/cityvoice/infrastructure/elasticsearch"
	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	"github.com/jonesrussell/cityvoice/infrastructure/profiling"
	infraredis "github.com/jonesrussell/cityvoice/infrastructure/redis"
	"github.com/jonesrussell/cityvoice/infrastructure/sse"
	"github.com/jonesrussell/cityvoice/internal/database"
	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/llm"
	"github.com/jonesrussell/cityvoice/internal/media"
	"github.com/jonesrussell/cityvoice/internal/scheduler"
)

const (
	defaultServiceName    = "cityvoice"
	defaultServicePort    = 8080
	defaultTokenTTL       = 24 * time.Hour
	defaultLLMTimeout     = 30 * time.Second
	defaultLLMRPS         = 2.0
	defaultLLMBurst       = 4
	defaultBreakerFails   = 5
	defaultBreakerTimeout = 30 * time.Second
	defaultCacheTTL       = 24 * time.Hour
	defaultSubmitRPM      = 10
	defaultTriageRPM      = 20
	defaultMaxUploadBytes = 10 << 20
)

// Provider names accepted by llm.providers.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOffline   = "offline"
)

// Config holds the service configuration.
type Config struct {
	Service       ServiceConfig    `yaml:"service"`
	Database      database.Config  `yaml:"database"`
	Logging       LoggingConfig    `yaml:"logging"`
	Auth          AuthConfig       `yaml:"auth"`
	LLM           LLMConfig        `yaml:"llm"`
	Redis         RedisConfig      `yaml:"redis"`
	Elasticsearch infraes.Config   `yaml:"elasticsearch"`
	Media         media.Config     `yaml:"media"`
	Keywords      KeywordsConfig   `yaml:"keywords"`
	Profiling     profiling.Config `yaml:"profiling"`
	Feed          sse.Config       `yaml:"feed"`
}

// ServiceConfig holds HTTP service settings.
type ServiceConfig struct {
	Name        string   `env:"SERVICE_NAME"  yaml:"name"`
	Version     string   `env:"APP_VERSION"   yaml:"version"`
	Port        int      `env:"SERVICE_PORT"  yaml:"port"`
	Debug       bool     `env:"APP_DEBUG"     yaml:"debug"`
	CORSOrigins []string `env:"CORS_ORIGINS"  yaml:"cors_origins"`
	// SubmitPerMinute is the per-client complaint submission rate.
	SubmitPerMinute int `env:"SUBMIT_PER_MINUTE" yaml:"submit_per_minute"`
	// TriagePerMinute is the per-client rate of the preview triage endpoints.
	TriagePerMinute int   `env:"TRIAGE_PER_MINUTE" yaml:"triage_per_minute"`
	MaxUploadBytes  int64 `yaml:"max_upload_bytes"`
	// AutoMigrate applies pending migrations when the server starts.
	AutoMigrate bool `env:"AUTO_MIGRATE" yaml:"auto_migrate"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// AuthConfig holds token and authority credentials.
type AuthConfig struct {
	JWTSecret string        `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
	TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL"  yaml:"token_ttl"`
	// Zone authority passwords. A zone without a password cannot log in.
	NorthPassword string `env:"AUTHORITY_NORTH_PASSWORD" yaml:"north_password"`
	SouthPassword string `env:"AUTHORITY_SOUTH_PASSWORD" yaml:"south_password"`
	EastPassword  string `env:"AUTHORITY_EAST_PASSWORD"  yaml:"east_password"`
	WestPassword  string `env:"AUTHORITY_WEST_PASSWORD"  yaml:"west_password"`
	AdminPassword string `env:"AUTHORITY_ADMIN_PASSWORD" yaml:"admin_password"`
}

// ZonePasswords returns the configured authority passwords by zone.
func (a AuthConfig) ZonePasswords() map[domain.Zone]string {
	return map[domain.Zone]string{
		domain.ZoneNorth: a.NorthPassword,
		domain.ZoneSouth: a.SouthPassword,
		domain.ZoneEast:  a.EastPassword,
		domain.ZoneWest:  a.WestPassword,
		domain.ZoneAdmin: a.AdminPassword,
	}
}

// LLMConfig selects and tunes the remote model providers.
type LLMConfig struct {
	// OfflineOnly answers every aspect with the keyword fallback.
	OfflineOnly bool `env:"LLM_OFFLINE_ONLY" yaml:"offline_only"`

	Providers ProvidersConfig `yaml:"providers"`

	GeminiAPIKey    string `env:"GEMINI_API_KEY"    yaml:"gemini_api_key"`
	GeminiModel     string `env:"GEMINI_MODEL"      yaml:"gemini_model"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"    yaml:"openai_api_key"`
	OpenAIModel     string `env:"OPENAI_MODEL"      yaml:"openai_model"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY" yaml:"anthropic_api_key"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL"   yaml:"anthropic_model"`

	Timeout time.Duration `env:"LLM_TIMEOUT" yaml:"timeout"`
	// RPS and Burst bound calls per provider.
	RPS   float64 `env:"LLM_RPS"   yaml:"rps"`
	Burst int     `env:"LLM_BURST" yaml:"burst"`

	BreakerThreshold int           `env:"LLM_BREAKER_THRESHOLD" yaml:"breaker_threshold"`
	BreakerTimeout   time.Duration `env:"LLM_BREAKER_TIMEOUT"   yaml:"breaker_timeout"`
}

// ProvidersConfig names the provider serving each aspect.
type ProvidersConfig struct {
	Triage   string `env:"LLM_TRIAGE_PROVIDER"   yaml:"triage"`
	Classify string `env:"LLM_CLASSIFY_PROVIDER" yaml:"classify"`
	Priority string `env:"LLM_PRIORITY_PROVIDER" yaml:"priority"`
	Summary  string `env:"LLM_SUMMARY_PROVIDER"  yaml:"summary"`
}

// For returns the provider configured for aspect.
func (p ProvidersConfig) For(aspect llm.Aspect) string {
	switch aspect {
	case llm.AspectTriage:
		return p.Triage
	case llm.AspectClassify:
		return p.Classify
	case llm.AspectPriority:
		return p.Priority
	case llm.AspectSummary:
		return p.Summary
	default:
		return ""
	}
}

// RedisConfig holds the response cache connection.
type RedisConfig struct {
	infraredis.Config `yaml:",inline"`

	CacheTTL time.Duration `env:"LLM_CACHE_TTL" yaml:"cache_ttl"`
	// Events publishes complaint lifecycle events to a Redis stream.
	Events bool `env:"REDIS_EVENTS_ENABLED" yaml:"events"`
}

// KeywordsConfig holds the keyword reload schedule.
type KeywordsConfig struct {
	ReloadSchedule string `env:"KEYWORDS_RELOAD_SCHEDULE" yaml:"reload_schedule"`
}

// Load reads path, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults(path, setDefaults)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if err := infraconfig.ValidateOneOf("database.driver", c.Database.Driver,
		database.DriverPostgres, database.DriverSQLite); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("auth.jwt_secret", c.Auth.JWTSecret); err != nil {
		return err
	}
	if c.Database.Driver == database.DriverSQLite {
		if err := infraconfig.ValidateRequired("database.path", c.Database.Path); err != nil {
			return err
		}
	} else {
		if err := infraconfig.ValidateRequired("database.host", c.Database.Host); err != nil {
			return err
		}
		if err := infraconfig.ValidateRequired("database.name", c.Database.Name); err != nil {
			return err
		}
	}

	for _, aspect := range llm.Aspects() {
		field := "llm.providers." + string(aspect)
		if err := infraconfig.ValidateOneOf(field, c.LLM.Providers.For(aspect),
			ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOffline); err != nil {
			return err
		}
	}
	if c.LLM.RPS <= 0 {
		return errors.New("llm.rps must be positive")
	}
	if c.Media.Quality < 1 || c.Media.Quality > 100 {
		return errors.New("media.quality must be between 1 and 100")
	}
	if c.Elasticsearch.Enabled {
		if err := infraconfig.ValidateRequired("elasticsearch.url", c.Elasticsearch.URL); err != nil {
			return err
		}
	}
	if c.Redis.Enabled {
		if err := infraconfig.ValidateRequired("redis.address", c.Redis.Address); err != nil {
			return err
		}
	}
	return nil
}

// LoggerConfig returns the logger settings.
func (c *Config) LoggerConfig() infralogger.Config {
	return infralogger.Config{
		Level:       c.Logging.Level,
		Format:      c.Logging.Format,
		Development: c.Service.Debug,
	}
}

func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = defaultServiceName
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = "dev"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = defaultServicePort
	}
	if cfg.Service.SubmitPerMinute == 0 {
		cfg.Service.SubmitPerMinute = defaultSubmitRPM
	}
	if cfg.Service.TriagePerMinute == 0 {
		cfg.Service.TriagePerMinute = defaultTriageRPM
	}
	if cfg.Service.MaxUploadBytes == 0 {
		cfg.Service.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = infralogger.FormatJSON
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = defaultTokenTTL
	}

	cfg.Database.SetDefaults()
	cfg.Elasticsearch.SetDefaults()
	cfg.Media.SetDefaults()
	cfg.Feed.SetDefaults()

	setLLMDefaults(&cfg.LLM)

	if cfg.Redis.CacheTTL == 0 {
		cfg.Redis.CacheTTL = defaultCacheTTL
	}
	if cfg.Keywords.ReloadSchedule == "" {
		cfg.Keywords.ReloadSchedule = scheduler.DefaultSchedule
	}
}

func setLLMDefaults(c *LLMConfig) {
	if c.Providers.Triage == "" {
		c.Providers.Triage = ProviderGemini
	}
	if c.Providers.Classify == "" {
		c.Providers.Classify = ProviderGemini
	}
	if c.Providers.Priority == "" {
		c.Providers.Priority = ProviderGemini
	}
	if c.Providers.Summary == "" {
		c.Providers.Summary = ProviderOpenAI
	}
	if c.GeminiModel == "" {
		c.GeminiModel = llm.DefaultGeminiModel
	}
	if c.OpenAIModel == "" {
		c.OpenAIModel = llm.DefaultOpenAIModel
	}
	if c.AnthropicModel == "" {
		c.AnthropicModel = llm.DefaultAnthropicModel
	}
	if c.Timeout == 0 {
		c.Timeout = defaultLLMTimeout
	}
	if c.RPS == 0 {
		c.RPS = defaultLLMRPS
	}
	if c.Burst == 0 {
		c.Burst = defaultLLMBurst
	}
	if c.BreakerThreshold == 0 {
		c.BreakerThreshold = defaultBreakerFails
	}
	if c.BreakerTimeout == 0 {
		c.BreakerTimeout = defaultBreakerTimeout
	}
}
