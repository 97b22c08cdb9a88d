package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [name]",
	Short: "Check connectivity to configured databases",
	Long: `Opens a connection to each configured database and probes it.
If a database name is provided, only that database is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if warehouseFactory == nil || newConfigLoader == nil {
		return errors.New("check service not configured")
	}

	cfg, err := newConfigLoader(configPath).Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	failed := 0
	checked := 0

	for _, db := range cfg.Databases {
		if len(args) > 0 && db.Name != args[0] {
			continue
		}
		checked++

		wh, err := warehouseFactory.Create(ctx, db)
		if err != nil {
			cmd.Printf("  %s %q: FAILED: %v\n", db.Type, db.Name, err)
			failed++
			continue
		}

		summary, err := wh.Check(ctx)
		if closeErr := wh.Close(); closeErr != nil {
			cmd.Printf("  %s %q: close failed: %v\n", db.Type, db.Name, closeErr)
		}
		if err != nil {
			cmd.Printf("  %s %q: FAILED: %v\n", db.Type, db.Name, err)
			failed++
			continue
		}
		cmd.Printf("  %s %q: OK (%s)\n", db.Type, wh.DatabaseName(), summary)
	}

	if checked == 0 {
		return fmt.Errorf("no configured database matches %q", args[0])
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d databases failed the check", failed, checked)
	}
	return nil
}
