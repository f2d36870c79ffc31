// Package cli provides the callwatch command-line interface.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"call-digest-go/internal/config"
	"call-digest-go/internal/logger"
)

// Version is set at build time.
var Version = "2.0.0"

// NewRootCmd builds the command tree. Config is loaded lazily by the
// commands that need it.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "callwatch",
		Short: "Post digests of recorded support calls to Slack",
		Long: `callwatch polls the telephony provider for recently completed calls,
transcribes each new recording, classifies the customer's concern and mood,
and posts the recording plus a formatted summary to a Slack channel.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newCycleCmd(), newVersionCmd())
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, logger.NewWithOutput(os.Stderr).With("service", "callwatch"), nil
}
