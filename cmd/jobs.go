package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/developeraldawla/project-n8n/app/service"
	"github.com/developeraldawla/project-n8n/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	pendingPaymentWorker bool
	expireWorker         bool
)

type subscriptionJob func(s *service.SubscriptionService, ctx context.Context) error

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Run subscription maintenance jobs",
}

var pendingPaymentCmd = &cobra.Command{
	Use:   "pending-payment",
	Short: "Deactivate pending-payment subscriptions that were never paid",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"pending_payment",
			pendingPaymentWorker,
			func(cfg *config.Config) time.Duration { return cfg.Jobs.PendingCleanupInterval },
			func(s *service.SubscriptionService, ctx context.Context) error {
				return s.RunPendingPaymentCleanupBatch(ctx)
			},
		)
	},
}

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Deactivate expired subscriptions and move their users to the default plan",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"expire",
			expireWorker,
			func(cfg *config.Config) time.Duration { return cfg.Jobs.ExpirationCheckInterval },
			func(s *service.SubscriptionService, ctx context.Context) error {
				return s.RunExpirationBatch(ctx)
			},
		)
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(pendingPaymentCmd)
	jobsCmd.AddCommand(expireCmd)

	pendingPaymentCmd.Flags().BoolVar(&pendingPaymentWorker, "worker", false, "Run continuously using configured interval")
	expireCmd.Flags().BoolVar(&expireWorker, "worker", false, "Run continuously using configured interval")
}

func runCommand(name string, worker bool, intervalResolver func(cfg *config.Config) time.Duration, fn subscriptionJob) {
	s := mustBuildServices(context.Background())
	defer s.close()

	if worker {
		runWorker(name, intervalResolver(s.cfg), s.subscriptions, fn)
		return
	}

	ctx := context.Background()
	runJob(name, func() error { return fn(s.subscriptions, ctx) })
}

func runWorker(name string, interval time.Duration, subscriptionService *service.SubscriptionService, fn subscriptionJob) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return fn(subscriptionService, ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return fn(subscriptionService, ctx) })
		}
	}
}

func runJob(name string, fn func() error) {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	entry := logrus.WithField("job", name).WithField("latency", latency.String())
	if err != nil {
		entry.WithError(err).Error("job_failed")
		return
	}
	entry.Info("job_completed")
}
