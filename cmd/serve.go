package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jonesrussell/cityvoice/internal/bootstrap"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			app, err := bootstrap.NewApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer app.Close()

			return app.Run(cmd.Context())
		},
	}
}
