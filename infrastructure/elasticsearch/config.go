package elasticsearch

import (
	"time"

	"github.com/jonesrussell/cityvoice/infrastructure/retry"
)

// Config holds Elasticsearch client configuration.
type Config struct {
	Enabled  bool   `env:"ELASTICSEARCH_ENABLED"  yaml:"enabled"`
	URL      string `env:"ELASTICSEARCH_URL"      yaml:"url"`
	Username string `env:"ELASTICSEARCH_USERNAME" yaml:"username"`
	Password string `env:"ELASTICSEARCH_PASSWORD" yaml:"password"`
	APIKey   string `env:"ELASTICSEARCH_API_KEY"  yaml:"api_key"`
	// Index is the complaint search index name.
	Index string `env:"ELASTICSEARCH_INDEX" yaml:"index"`

	MaxRetries  int           `yaml:"max_retries"`
	PingTimeout time.Duration `yaml:"ping_timeout"`
	// Connect is the boot-time connection retry policy.
	Connect retry.Config `yaml:"-"`
}

// SetDefaults applies default values to the config if not set.
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:9200"
	}
	if c.Index == "" {
		c.Index = "cityvoice_complaints"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = 5 * time.Second
	}
	if c.Connect.MaxAttempts == 0 {
		c.Connect = retry.Config{
			MaxAttempts:  5,
			InitialDelay: 2 * time.Second,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		}
	}
}
