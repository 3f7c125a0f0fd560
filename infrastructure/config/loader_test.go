package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonesrussell/cityvoice/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string        `env:"CV_TEST_NAME"    yaml:"name"`
	Port    int           `env:"CV_TEST_PORT"    yaml:"port"`
	Timeout time.Duration `env:"CV_TEST_TIMEOUT" yaml:"timeout"`
	Debug   bool          `env:"CV_TEST_DEBUG"   yaml:"debug"`
	Origins []string      `env:"CV_TEST_ORIGINS" yaml:"origins"`
	Nested  struct {
		Key string `env:"CV_TEST_KEY" yaml:"key"`
	} `yaml:"nested"`
}

func defaults(s *sample) {
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.Name == "" {
		s.Name = "cityvoice"
	}
}

func TestLoadWithDefaults_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	cfg, err := config.LoadWithDefaults[sample](filepath.Join(t.TempDir(), "missing.yml"), defaults)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "cityvoice", cfg.Name)
}

func TestLoadWithDefaults_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := "name: from-file\nport: 9000\ntimeout: 5s\nnested:\n  key: file-key\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("ENV_FILE", filepath.Join(dir, "absent.env"))
	t.Setenv("CV_TEST_PORT", "9100")
	t.Setenv("CV_TEST_DEBUG", "yes")
	t.Setenv("CV_TEST_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("CV_TEST_KEY", "env-key")

	cfg, err := config.LoadWithDefaults[sample](path, defaults)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Name)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins)
	assert.Equal(t, "env-key", cfg.Nested.Key)
}

func TestLoad_RequiresFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	_, err := config.Load[sample](filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestValidateOneOf(t *testing.T) {
	t.Parallel()

	require.NoError(t, config.ValidateOneOf("database.driver", "postgres", "postgres", "sqlite3"))

	err := config.ValidateOneOf("database.driver", "mysql", "postgres", "sqlite3")
	var vErr *config.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "database.driver", vErr.Field)
}

func TestValidatePort(t *testing.T) {
	t.Parallel()

	assert.NoError(t, config.ValidatePort("service.port", 8060))
	assert.Error(t, config.ValidatePort("service.port", 0))
	assert.Error(t, config.ValidatePort("service.port", 70000))
}
