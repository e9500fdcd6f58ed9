package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TWRT/rtm2todoist/internal/client"
	"github.com/TWRT/rtm2todoist/internal/client/rtm"
	"github.com/TWRT/rtm2todoist/internal/client/todoist"
	"github.com/TWRT/rtm2todoist/internal/config"
	"github.com/TWRT/rtm2todoist/internal/logging"
	"github.com/TWRT/rtm2todoist/internal/repository"
	"github.com/TWRT/rtm2todoist/internal/service"
)

func newRTMClient(cfg *config.Config) (*rtm.RTMClient, error) {
	if err := cfg.RequireRTM(); err != nil {
		return nil, err
	}
	creds := cfg.Credentials
	return rtm.NewRTMClient(creds.RTMAPIKey, creds.RTMSecret, creds.RTMToken).
		WithBaseURL(cfg.Source.BaseURL).
		WithTimeout(cfg.HTTP.Timeout), nil
}

func newSourceClient(cfg *config.Config) (client.SourceClient, error) {
	if err := cfg.RequireSource(); err != nil {
		return nil, err
	}
	if cfg.UseExport() {
		return rtm.NewExportSource(cfg.Source.ExportFile), nil
	}
	return newRTMClient(cfg)
}

func newTodoistClient(ctx context.Context, cfg *config.Config) (*todoist.TodoistClient, error) {
	if err := cfg.RequireDestination(); err != nil {
		return nil, err
	}
	return todoist.NewTodoistClient(ctx, cfg.Credentials.TodoistAPIKey).
		WithBaseURL(cfg.Destination.BaseURL).
		WithTimeout(cfg.HTTP.Timeout), nil
}

func newDestinationClient(ctx context.Context, cfg *config.Config, dryRun bool, logger *logging.Logger) (client.DestinationClient, error) {
	if dryRun {
		return todoist.NewDryRunClient(logger.WithPhase("dry-run")), nil
	}
	return newTodoistClient(ctx, cfg)
}

// openLedger returns a nil ledger and db when the ledger is disabled.
func openLedger(cfg *config.Config) (service.RunLedger, *sql.DB, error) {
	if !cfg.Ledger.Enabled {
		return nil, nil, nil
	}
	db, err := repository.InitDB(cfg.Ledger.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open ledger %s: %w", cfg.Ledger.Path, err)
	}
	return repository.NewLedger(db), db, nil
}
