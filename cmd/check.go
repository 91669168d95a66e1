package cmd

import (
	"context"
	"fmt"

	"case-mirror/core/config"
	"case-mirror/core/database"
	"case-mirror/core/logger"
	"case-mirror/core/storage"
	"case-mirror/core/upstream"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the mirror database, the registry, and the snapshot bucket",
	Long: `Verifies the environment the service runs in: the cases table schema,
registry reachability, and the snapshot bucket. Each check reports on its
own; the command exits non-zero when any of them fails.`,
	RunE: runChecks,
}

func init() {
	RootCmd.AddCommand(checkCmd)
}

func runChecks(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	failed := 0

	l.Info("Checking mirror database...")
	if err := checkDatabase(cfg); err != nil {
		l.Error("Database check failed", zap.Error(err))
		failed++
	} else {
		l.Info("Database check passed, cases table matches the model")
	}

	l.Info("Checking case registry...")
	if err := checkRegistry(ctx, cfg); err != nil {
		l.Error("Registry check failed", zap.Error(err))
		failed++
	} else {
		l.Info("Registry check passed, listing endpoint is reachable")
	}

	if cfg.Storage.Enabled() {
		l.Info("Checking snapshot bucket...")
		if err := checkBucket(ctx, cfg); err != nil {
			l.Error("Bucket check failed", zap.Error(err))
			failed++
		} else {
			l.Info("Bucket check passed", zap.String("bucket", cfg.Storage.Bucket))
		}
	} else {
		l.Info("Snapshots disabled, skipping bucket check")
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

// checkDatabase verifies the cases table carries the columns the store
// reads and writes.
func checkDatabase(cfg *config.Config) error {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}

	columns, err := database.GetTableColumns(db, "cases")
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return fmt.Errorf("cases table not found, run the server once or create it manually")
	}

	present := make(map[string]bool, len(columns))
	for _, col := range columns {
		present[col.Field] = true
	}

	var missing []string
	for _, want := range []string{"id", "logical_timestamp", "blob"} {
		if !present[want] {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("cases table is missing columns: %v", missing)
	}

	return nil
}

// checkRegistry fetches a single-record page to prove the credentials and
// the endpoint work.
func checkRegistry(ctx context.Context, cfg *config.Config) error {
	client, err := upstream.NewClient(cfg.Upstream)
	if err != nil {
		return err
	}

	_, err = client.FetchPage(ctx, 1, 0)
	return err
}

func checkBucket(ctx context.Context, cfg *config.Config) error {
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return err
	}

	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist, the first snapshot will create it", cfg.Storage.Bucket)
	}

	return nil
}
