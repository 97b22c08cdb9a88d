package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datascribe-labs/datascribe-cli/internal/core/services"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync documentation for all configured databases",
	Long: `Connects to every configured database, writes the documentation tree
and removes stale paths. A database that fails to connect is reported
and skipped; its siblings still sync.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if warehouseFactory == nil || artifactRenderer == nil || newConfigLoader == nil {
		return errors.New("sync service not configured")
	}

	cfg, err := newConfigLoader(configPath).Load()
	if err != nil {
		return err
	}

	runner := services.NewRunner(cfg, warehouseFactory, artifactRenderer)
	report, err := runner.SyncAll(context.Background())
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	for _, db := range report.Databases {
		if db.Err != nil {
			cmd.Printf("  %s %q: FAILED: %v\n", db.Type, db.Name, db.Err)
			continue
		}
		cmd.Printf("  %s %q: %d schemas, %d tables, %d stale paths removed\n",
			db.Type, db.Name, db.SchemasSynced, db.TablesSynced, db.PathsRemoved)
	}
	cmd.Printf("Synced %d tables across %d schemas, removed %d stale paths.\n",
		report.TablesSynced, report.SchemasSynced, report.PathsRemoved)

	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d databases failed to sync", len(failed), len(report.Databases))
	}
	return nil
}
