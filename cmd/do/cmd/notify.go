package cmd

import (
	"context"
	"fmt"

	"github.com/onegoal/onegoal/internal/app"
	"github.com/onegoal/onegoal/internal/config"
	"github.com/onegoal/onegoal/internal/logger"
	"github.com/onegoal/onegoal/internal/model"
	"github.com/spf13/cobra"
)

type batchRunner func(a *app.App, ctx context.Context) (*model.BatchResult, error)

func NotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Run a notification batch once, outside the scheduler",
	}

	cmd.AddCommand(
		notifyStep("check-in", "Send check-in reminders", func(a *app.App, ctx context.Context) (*model.BatchResult, error) {
			return a.NotificationService.RunCheckInReminders(ctx)
		}),
		notifyStep("streak", "Send streak milestone emails", func(a *app.App, ctx context.Context) (*model.BatchResult, error) {
			return a.NotificationService.RunStreakMilestoneCheck(ctx)
		}),
		notifyStep("deadline", "Send deadline warnings", func(a *app.App, ctx context.Context) (*model.BatchResult, error) {
			return a.NotificationService.RunDeadlineWarnings(ctx)
		}),
	)

	return cmd
}

func notifyStep(use, short string, run batchRunner) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
			defer logger.Flush()

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := run(a, cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: sent=%d skipped=%d failed=%d\n",
				result.Type, result.Sent, result.Skipped, result.Failed)
			return nil
		},
	}
}
