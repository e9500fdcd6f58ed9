package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/TWRT/rtm2todoist/internal/client"
	"github.com/TWRT/rtm2todoist/internal/config"
	"github.com/TWRT/rtm2todoist/internal/console"
	"github.com/TWRT/rtm2todoist/internal/logging"
	"github.com/TWRT/rtm2todoist/internal/service"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy tasks from Remember The Milk to Todoist",
	Long: `Fetch tasks from Remember The Milk (or an export file), rebuild the
subtask tree and create every task in Todoist, parents before children.

Every source list must have a route in the config file; the run stops before
touching Todoist when one is missing. A task that cannot be created is
reported and its subtasks are skipped. Nothing is retried.

Examples:
  # Migrate every incomplete task
  rtm2todoist migrate

  # Preview one list without calling Todoist
  rtm2todoist migrate --list 46234599 --dry-run

  # Migrate from a JSON export
  rtm2todoist migrate --export rememberthemilk_export.json`,
	RunE: runMigrate,
}

var (
	migrateExport   string
	migrateFilter   string
	migrateListID   string
	migrateTaskID   string
	migrateDryRun   bool
	migrateNoLedger bool
)

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringVar(&migrateExport, "export", "", "Read tasks from an RTM JSON export instead of the API")
	migrateCmd.Flags().StringVar(&migrateFilter, "filter", "", "RTM search filter (default from config: "+config.DefaultFilter+")")
	migrateCmd.Flags().StringVar(&migrateListID, "list", "", "Only migrate tasks of this source list id")
	migrateCmd.Flags().StringVar(&migrateTaskID, "task", "", "Only migrate the task with this source id")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Walk the tasks and log requests without calling Todoist")
	migrateCmd.Flags().BoolVar(&migrateNoLedger, "no-ledger", false, "Do not record this run in the ledger database")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if migrateExport != "" {
		cfg.Source.ExportFile = migrateExport
	}
	if cmd.Flags().Changed("filter") {
		cfg.Source.Filter = migrateFilter
	}
	if migrateNoLedger {
		cfg.Ledger.Enabled = false
	}

	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := newSourceClient(cfg)
	if err != nil {
		return err
	}
	dest, err := newDestinationClient(ctx, cfg, migrateDryRun, logger)
	if err != nil {
		return err
	}

	ledger, db, err := openLedger(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	printer := console.NewPrinter(cmd.OutOrStdout())
	svc := service.NewMigrationService(source, dest, cfg.RoutingTable(), ledger, logger, printer)
	svc.DryRun = migrateDryRun
	if cfg.UseExport() {
		svc.SourceName = "rtm-export"
	}

	result, err := svc.Migrate(ctx, client.Query{
		Filter: cfg.Source.Filter,
		ListID: migrateListID,
		TaskID: migrateTaskID,
	})
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d tasks could not be created", result.Failed, result.Total)
	}
	return nil
}
