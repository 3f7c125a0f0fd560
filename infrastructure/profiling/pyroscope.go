// Package profiling starts optional continuous profiling.
package profiling

import (
	"fmt"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"
)

// Config controls continuous profiling.
type Config struct {
	Enabled     bool   `env:"ENABLE_CONTINUOUS_PROFILING" yaml:"enabled"`
	ServerURL   string `env:"PYROSCOPE_SERVER_URL"        yaml:"server_url"`
	Environment string `env:"PYROSCOPE_ENVIRONMENT"       yaml:"environment"`
}

// Profiler wraps a running Pyroscope profiler.
type Profiler struct {
	profiler *pyroscope.Profiler
}

// Start begins continuous profiling. It returns (nil, nil) when disabled.
func Start(serviceName, version string, cfg Config) (*Profiler, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	serverURL := cfg.ServerURL
	if serverURL == "" {
		serverURL = "http://pyroscope:4040"
	}
	environment := cfg.Environment
	if environment == "" {
		environment = "development"
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: "cityvoice." + serviceName,
		ServerAddress:   serverURL,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Tags: map[string]string{
			"environment": environment,
			"version":     version,
			"hostname":    hostname,
			"go_version":  runtime.Version(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler: %w", err)
	}

	return &Profiler{profiler: profiler}, nil
}

// Stop flushes and stops the profiler. Safe on a nil receiver.
func (p *Profiler) Stop() error {
	if p == nil || p.profiler == nil {
		return nil
	}
	return p.profiler.Stop()
}
