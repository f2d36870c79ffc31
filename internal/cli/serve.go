package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"call-digest-go/internal/scheduler"
	"call-digest-go/internal/server"
)

func newServeCmd() *cobra.Command {
	var noScheduler bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the polling scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			proc, err := buildProcessor(cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sched := scheduler.New(log)
			sched.Register(&scheduler.CycleJob{
				Runner:   proc,
				Interval: cfg.Cycle.Interval,
				Log:      log.With("component", "cycle-job"),
			})

			srv := server.New(proc, sched, server.Environment{
				ProviderSID:       cfg.Provider.SID,
				SlackChannel:      cfg.Slack.Channel,
				WebhookConfigured: cfg.Slack.Webhook != "",
			}, Version, log)

			g, gctx := errgroup.WithContext(ctx)
			if !noScheduler {
				g.Go(func() error {
					if err := sched.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
						return err
					}
					return nil
				})
			}
			g.Go(func() error {
				return srv.Run(gctx, ":"+cfg.Server.Port)
			})
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "serve manual triggers only")
	return cmd
}
