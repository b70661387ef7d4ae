// Command manage runs maintenance tasks against the InvAI database. It is meant
// to be invoked by cron or a similar scheduler.
package main

import (
	"fmt"
	"os"

	"github.com/kigongo-vincent/invai-backend/config"
	"github.com/kigongo-vincent/invai-backend/internal/app"
	"github.com/kigongo-vincent/invai-backend/logger"
	"github.com/kigongo-vincent/invai-backend/modules/Notification"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// env is filled by the root command before any subcommand runs.
type env struct {
	cfg *config.Config
	db  *gorm.DB
	log logger.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:          "manage",
		Short:        "Maintenance tasks for the InvAI backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd.Name())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			e.close()
		},
	}
	root.AddCommand(
		migrateCmd(e),
		cleanupCmd(e),
		stockReviewCmd(e),
		seedCmd(e),
	)
	return root
}

func (e *env) open(command string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.log = logger.New(cfg.Logging.Level, cfg.Logging.Format).With(logger.Fields{"command": command})

	e.db, err = config.InitDB(cfg.Database, e.log.Zap())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}

func (e *env) close() {
	if e.db != nil {
		if sqlDB, err := e.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if e.log != nil {
		_ = e.log.Zap().Sync()
	}
}

func migrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return app.Migrate(e.db, e.log)
		},
	}
}

func cleanupCmd(e *env) *cobra.Command {
	var (
		days        int
		expiredOnly bool
	)
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired and old read notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("days") {
				days = e.cfg.Notifications.CleanupDays
			}
			Notification.InitializeService(e.db, e.log, nil)
			svc := Notification.GetNotificationService()
			out := cmd.OutOrStdout()

			expired, err := svc.CleanupExpired()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %d expired notifications\n", expired)
			if expiredOnly {
				return nil
			}

			old, err := svc.CleanupOldRead(days)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %d read notifications older than %d days\n", old, days)

			byPreference, err := svc.CleanupByPreferences()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %d read notifications past user auto-delete settings\n", byPreference)
			fmt.Fprintf(out, "Total cleaned: %d notifications\n", expired+old+byPreference)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "delete read notifications older than this many days (default from config)")
	cmd.Flags().BoolVar(&expiredOnly, "expired-only", false, "only delete expired notifications")
	return cmd
}

func stockReviewCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stock-review",
		Short: "Notify admins and managers about products below min stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, err := app.Wire(e.cfg, e.db, nil, nil, e.log).StockReview()
			if err != nil {
				return err
			}
			if count == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "All products are above their minimum stock")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stock review sent for %d products\n", count)
			return nil
		},
	}
}

func seedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo data set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Migrate(e.db, e.log); err != nil {
				return err
			}
			app.Wire(e.cfg, e.db, nil, nil, e.log)
			report, err := app.Seed(e.db, e.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d users, %d suppliers, %d products and %d orders (password %q)\n",
				report.Users, report.Suppliers, report.Products, report.Orders, app.DemoPassword)
			return nil
		},
	}
}
