package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/logger"
)

// Output tree directory prefixes. The tree is
// root/type=<t>/database=<d>/schema=<s>/table=<t>/<artifact>.md;
// entries not carrying the expected prefix are never touched.
const (
	typeDirPrefix   = "type="
	schemaDirPrefix = "schema="
	tableDirPrefix  = "table="
)

// CleanupStalePaths removes schema and table directories under the
// ledger's root that were not recorded during this run. It returns the
// number of directories removed. A missing root is not an error: a
// database that produced nothing has nothing to reconcile.
//
// Running it again against an unchanged ledger removes nothing.
func CleanupStalePaths(state *domain.SyncState) (int, error) {
	entries, err := os.ReadDir(state.RootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read output tree %s: %w", state.RootPath, err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), schemaDirPrefix) {
			continue
		}
		schema := strings.TrimPrefix(entry.Name(), schemaDirPrefix)
		schemaPath := filepath.Join(state.RootPath, entry.Name())

		if !state.HasSchema(schema) {
			if err := os.RemoveAll(schemaPath); err != nil {
				return removed, fmt.Errorf("failed to remove stale schema dir %s: %w", schemaPath, err)
			}
			logger.Debug("Removed stale schema directory: %s", schemaPath)
			removed++
			continue
		}

		n, err := cleanupStaleTables(state, schema, schemaPath)
		removed += n
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}

func cleanupStaleTables(state *domain.SyncState, schema, schemaPath string) (int, error) {
	entries, err := os.ReadDir(schemaPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema dir %s: %w", schemaPath, err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), tableDirPrefix) {
			continue
		}
		table := strings.TrimPrefix(entry.Name(), tableDirPrefix)
		if state.HasTable(schema, table) {
			continue
		}
		tablePath := filepath.Join(schemaPath, entry.Name())
		if err := os.RemoveAll(tablePath); err != nil {
			return removed, fmt.Errorf("failed to remove stale table dir %s: %w", tablePath, err)
		}
		logger.Debug("Removed stale table directory: %s", tablePath)
		removed++
	}
	return removed, nil
}

// CleanupStaleDatabaseTypes removes "type=<x>" directories under the
// output root whose warehouse type no longer appears in the
// configuration. It returns the number of directories removed.
func CleanupStaleDatabaseTypes(root string, active map[string]struct{}) (int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read output root %s: %w", root, err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), typeDirPrefix) {
			continue
		}
		if _, ok := active[entry.Name()]; ok {
			continue
		}
		typePath := filepath.Join(root, entry.Name())
		if err := os.RemoveAll(typePath); err != nil {
			return removed, fmt.Errorf("failed to remove stale type dir %s: %w", typePath, err)
		}
		logger.Debug("Removed stale type directory: %s", typePath)
		removed++
	}
	return removed, nil
}
