package cmd

import (
	"context"
	"fmt"

	"case-mirror/core/config"
	"case-mirror/core/database"
	"case-mirror/core/logger"
	"case-mirror/core/mirror"
	"case-mirror/core/storage"
	"case-mirror/core/upstream"
	"case-mirror/feature/cases/models"
	"case-mirror/feature/cases/store"
	"case-mirror/feature/snapshots"

	"github.com/spf13/cobra"
)

var archiveAfterSync bool

// syncCmd runs a single reconciliation pass in the foreground.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one reconciliation pass against the case registry",
	Long: `Fetches the registry listing page by page, reconciles it against the
local mirror, and prints the pass statistics.

Examples:
  # One pass
  case-mirror sync

  # One pass, then archive a snapshot of the refreshed mirror
  case-mirror sync --archive`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&archiveAfterSync, "archive", false, "Archive a snapshot after a successful pass")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.Case{}); err != nil {
		return fmt.Errorf("failed to migrate cases table: %w", err)
	}
	st := store.New(db)

	client, err := upstream.NewClient(cfg.Upstream)
	if err != nil {
		return fmt.Errorf("failed to create upstream client: %w", err)
	}

	var archiver mirror.Archiver
	if archiveAfterSync {
		if !cfg.Storage.Enabled() {
			return fmt.Errorf("--archive requires storage.endpoint to be configured")
		}
		storageClient, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
		archiver = snapshots.NewService(storageClient, cfg.Storage.Bucket, st, cfg.Storage.Retention, l)
	}

	syncer := mirror.NewSynchronizer(client, st, archiver, l, cfg.Mirror.Interval())
	stats, err := syncer.SyncNow(ctx)
	if err != nil {
		return fmt.Errorf("reconciliation pass failed: %w", err)
	}

	fmt.Println("\n=== Reconciliation Pass ===")
	fmt.Printf("Pages: %d\n", stats.Pages)
	fmt.Printf("Inserted: %d\n", stats.Inserted)
	fmt.Printf("Updated: %d\n", stats.Updated)
	fmt.Printf("Unchanged: %d\n", stats.Unchanged)
	fmt.Printf("Deleted: %d\n", stats.Deleted)
	fmt.Printf("Execution Time: %s\n", stats.ExecutionTime)

	return nil
}
