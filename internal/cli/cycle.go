package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newCycleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cycle",
		Short: "Run one polling cycle and print the result as JSON",
		Long: `Run one polling cycle and print the result as JSON.

The dedup ledger lives in memory, so every call on the provider's most recent
page is treated as new by a one-shot run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			proc, err := buildProcessor(cfg, log)
			if err != nil {
				return err
			}
			res, err := proc.RunCycle(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}
