package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/datascribe-labs/datascribe-cli/internal/accessors"
	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driving"
	"github.com/datascribe-labs/datascribe-cli/internal/logger"
)

// Ensure Runner implements the driving port.
var _ driving.SyncRunner = (*Runner)(nil)

// Runner syncs every configured database sequentially and reconciles
// the output tree afterwards. One database failing to connect never
// stops its siblings.
type Runner struct {
	cfg      *domain.Config
	factory  driven.WarehouseFactory
	renderer driven.Renderer
}

// NewRunner creates a sync runner.
func NewRunner(cfg *domain.Config, factory driven.WarehouseFactory, renderer driven.Renderer) *Runner {
	return &Runner{cfg: cfg, factory: factory, renderer: renderer}
}

// SyncAll syncs all configured databases and removes output for
// warehouse types that are no longer configured.
func (r *Runner) SyncAll(ctx context.Context) (*driving.Report, error) {
	report := &driving.Report{RunID: uuid.NewString()}
	logger.Section("Sync run " + report.RunID)

	for _, dbCfg := range r.cfg.Databases {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result := r.syncDatabase(ctx, dbCfg)
		if result.Err != nil {
			logger.Warn("Sync failed for %s database %q: %v", result.Type, result.Name, result.Err)
		}
		report.SchemasSynced += result.SchemasSynced
		report.TablesSynced += result.TablesSynced
		report.PathsRemoved += result.PathsRemoved
		report.Databases = append(report.Databases, result)
	}

	// Type-level reconciliation only runs for a completed pass over the
	// configuration; an aborted run must not delete output it never
	// re-synced.
	if err := ctx.Err(); err != nil {
		return report, err
	}
	removed, err := CleanupStaleDatabaseTypes(r.cfg.OutputRoot, r.cfg.ActiveTypeDirs())
	report.PathsRemoved += removed
	if err != nil {
		return report, err
	}

	logger.Info("Synced %d tables across %d schemas, removed %d stale paths",
		report.TablesSynced, report.SchemasSynced, report.PathsRemoved)
	return report, nil
}

// syncDatabase syncs one database end to end: connect, resolve schemas,
// enumerate and filter tables, write artifacts, then reconcile this
// database's subtree against the run's ledger.
func (r *Runner) syncDatabase(ctx context.Context, dbCfg domain.DatabaseConfig) driving.DatabaseResult {
	result := driving.DatabaseResult{Name: dbCfg.Name, Type: dbCfg.Type}

	filter, err := domain.NewTableFilter(dbCfg.TablesInclude, dbCfg.TablesExclude)
	if err != nil {
		result.Err = err
		return result
	}

	wh, err := r.factory.Create(ctx, dbCfg)
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", domain.ErrConnectionFailed, err)
		return result
	}
	defer wh.Close()

	name := wh.DatabaseName()
	if result.Name == "" {
		result.Name = name
	}
	logger.Section(fmt.Sprintf("Syncing %s database %q", dbCfg.Type, name))

	root := filepath.Join(r.cfg.OutputRoot, dbCfg.TypeDir(), "database="+name)
	state := domain.NewSyncState(root)
	accs := accessors.ForConfig(dbCfg, r.renderer)

	schemas, err := wh.Schemas(ctx)
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", domain.ErrSchemaEnumeration, err)
		return result
	}

	for _, schema := range schemas {
		tables, err := wh.Tables(ctx, schema)
		if err != nil {
			// Skipped schemas stay out of the ledger so their stale
			// output is not mistaken for fresh.
			logger.Warn("Skipping schema %q of database %q: %v", schema, name, err)
			continue
		}
		state.AddSchema(schema)

		for _, table := range tables {
			if !filter.Match(schema, table) {
				logger.Debug("Filtered out table %s.%s", schema, table)
				continue
			}
			if err := r.syncTable(ctx, wh, state, accs, schema, table); err != nil {
				result.SchemasSynced = state.SchemasSynced
				result.TablesSynced = state.TablesSynced
				result.Err = err
				return result
			}
		}
	}

	result.SchemasSynced = state.SchemasSynced
	result.TablesSynced = state.TablesSynced

	// Reconciliation needs a settled ledger; a cancelled run must not
	// delete paths it never got around to re-syncing.
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}
	removed, err := CleanupStalePaths(state)
	result.PathsRemoved = removed
	if err != nil {
		result.Err = err
	}
	return result
}

// syncTable writes every selected artifact for one table and records it
// in the ledger. Retrieval and rendering failures degrade inside the
// accessors; only filesystem failures surface here.
func (r *Runner) syncTable(ctx context.Context, wh driven.Warehouse, state *domain.SyncState, accs []accessors.Accessor, schema, table string) error {
	dir := filepath.Join(state.RootPath, schemaDirPrefix+schema, tableDirPrefix+table)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create table dir %s: %w", dir, err)
	}

	tc := wh.TableContext(schema, table)
	for _, acc := range accs {
		text := acc.Generate(ctx, tc, schema, table)
		path := filepath.Join(dir, acc.Filename())
		if err := atomic.WriteFile(path, strings.NewReader(text)); err != nil {
			return fmt.Errorf("failed to write artifact %s: %w", path, err)
		}
	}

	state.AddTable(schema, table)
	logger.Debug("Synced table %s.%s", schema, table)
	return nil
}
