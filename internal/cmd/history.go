package cmd

import (
	"fmt"
	"io"

	"github.com/TWRT/rtm2todoist/internal/config"
	"github.com/TWRT/rtm2todoist/internal/repository"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded migration runs",
	Long: `Show runs stored in the ledger database, newest first. With --run, print
the outcome of every task in that run, including the error text of failures,
so they can be fixed by hand.`,
	RunE: runHistory,
}

var (
	historyLimit int
	historyRunID string
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show (0 for all)")
	historyCmd.Flags().StringVar(&historyRunID, "run", "", "Show task outcomes for this run id")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := repository.InitDB(cfg.Ledger.Path)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", cfg.Ledger.Path, err)
	}
	defer db.Close()
	ledger := repository.NewLedger(db)
	out := cmd.OutOrStdout()

	if historyRunID != "" {
		run, err := ledger.Migrations.GetMigration(cmd.Context(), historyRunID)
		if err != nil {
			return err
		}
		rows, err := ledger.TaskMappings.GetByMigrationID(cmd.Context(), historyRunID)
		if err != nil {
			return err
		}
		printRun(out, run)
		printTaskMappings(out, rows)
		return nil
	}

	runs, err := ledger.Migrations.GetMigrations(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	for _, run := range runs {
		printRun(out, run)
	}
	return nil
}

func printRun(w io.Writer, m repository.Migration) {
	mode := ""
	if m.DryRun {
		mode = " dry-run"
	}
	fmt.Fprintf(w, "%s  %s%s  %s  created %d, failed %d, skipped %d of %d\n",
		m.Id,
		m.Status,
		mode,
		humanize.Time(m.StartedAt),
		m.CompletedTasks,
		m.FailedTasks,
		m.SkippedTasks,
		m.TotalTasks,
	)
}

func printTaskMappings(w io.Writer, rows []repository.TaskMapping) {
	for _, r := range rows {
		line := fmt.Sprintf("  [%s/%s] %s", r.ListID, r.SourceTaskID, r.Status)
		if r.DestTaskID != "" {
			line += " -> " + r.DestTaskID
		}
		if r.ErrorMessage != "" {
			line += ": " + r.ErrorMessage
		}
		fmt.Fprintln(w, line)
	}
}
