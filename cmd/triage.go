package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/cityvoice/internal/bootstrap"
	"github.com/jonesrussell/cityvoice/internal/keywords"
	"github.com/jonesrussell/cityvoice/internal/telemetry"
	"github.com/jonesrussell/cityvoice/internal/triage"
)

func newTriageCommand() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "triage <text>",
		Short: "Triage a complaint text and print the result as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			pipeline := bootstrap.OfflinePipeline(log)
			if !offline {
				tp := telemetry.NewPrivateProvider()
				providers, setupErr := bootstrap.SetupProviders(cfg, nil, tp, log)
				if setupErr != nil {
					return setupErr
				}
				client := triage.NewClient(providers.Router, keywords.NewDefaultEngine(log), log)
				pipeline = triage.NewPipeline(client, tp, log)
			}

			result := pipeline.Process(cmd.Context(), strings.Join(args, " "))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "use keyword matching only")
	return cmd
}
