package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-donations/config"
)

var (
	workerMode bool

	adminName     string
	adminEmail    string
	adminPassword string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run gateway reconciliation commands",
}

var reconcilePendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Ask the gateway about stale pending donations and settle them",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"reconcile_pending",
			func(cfg *config.Config) time.Duration { return cfg.Jobs.ReconcileInterval },
			func(app *application, ctx context.Context) error {
				return app.donations.RunReconcilePendingBatch(ctx)
			},
		)
	},
}

var receiptsCmd = &cobra.Command{
	Use:   "receipts",
	Short: "Run receipt delivery commands",
}

var receiptsSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Mail receipts of completed donations that were never delivered",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"receipts_send",
			func(cfg *config.Config) time.Duration { return cfg.Jobs.ReceiptsInterval },
			func(app *application, ctx context.Context) error {
				return app.receipts.RunReceiptDispatchBatch(ctx)
			},
		)
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account, or promote and reset an existing one",
	Run: func(_ *cobra.Command, _ []string) {
		app, cleanup := mustCreateApplication()
		defer cleanup()

		runJob("admin_create", func() error {
			user, err := app.auth.CreateAdmin(context.Background(), adminName, adminEmail, adminPassword)
			if err != nil {
				return err
			}
			logrus.WithField("user_id", user.ID).WithField("email", user.Email).Info("Admin account ready")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(receiptsCmd)
	rootCmd.AddCommand(adminCmd)
	reconcileCmd.AddCommand(reconcilePendingCmd)
	receiptsCmd.AddCommand(receiptsSendCmd)
	adminCmd.AddCommand(adminCreateCmd)

	rootCmd.PersistentFlags().BoolVar(&workerMode, "worker", false, "Run continuously using configured interval")

	adminCreateCmd.Flags().StringVar(&adminName, "name", "Administrator", "Display name of the admin")
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "Login email of the admin")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "Login password of the admin")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("password")
}

func runCommand(
	name string,
	intervalResolver func(cfg *config.Config) time.Duration,
	fn func(app *application, ctx context.Context) error,
) {
	app, cleanup := mustCreateApplication()
	defer cleanup()

	if workerMode {
		runWorker(name, intervalResolver(app.cfg), app, fn)
		return
	}

	ctx := context.Background()
	runJob(name, func() error { return fn(app, ctx) })
}

func runWorker(
	name string,
	interval time.Duration,
	app *application,
	fn func(app *application, ctx context.Context) error,
) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return fn(app, ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return fn(app, ctx) })
		}
	}
}

func runJob(name string, fn func() error) {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
}
