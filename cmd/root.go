// Package cmd implements the cityvoice command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	infraconfig "github.com/jonesrussell/cityvoice/infrastructure/config"
	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	"github.com/jonesrussell/cityvoice/internal/bootstrap"
	"github.com/jonesrussell/cityvoice/internal/config"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var cfgFile string

// NewRootCommand returns the cityvoice command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "cityvoice",
		Short:         "Municipal complaint triage service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", infraconfig.GetConfigPath("config.yml"),
		"path to the configuration file")

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newTriageCommand())
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the command tree.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// loadConfig loads the configuration and a logger tagged with the service name.
func loadConfig() (*config.Config, infralogger.Logger, error) {
	cfg, err := bootstrap.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Service.Version == "dev" {
		cfg.Service.Version = Version
	}

	log, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}
