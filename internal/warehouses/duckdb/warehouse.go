// Package duckdb implements the warehouse ports for DuckDB files.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb/v2"
	"golang.org/x/time/rate"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
	"github.com/datascribe-labs/datascribe-cli/internal/warehouses/sqlbase"
)

// Ensure Warehouse implements the port.
var _ driven.Warehouse = (*Warehouse)(nil)

// Built-in schemas excluded from sync.
var systemSchemas = map[string]struct{}{
	"information_schema": {},
	"pg_catalog":         {},
}

// Warehouse is an open DuckDB session.
type Warehouse struct {
	cfg     domain.DatabaseConfig
	db      *sql.DB
	limiter *rate.Limiter
}

// Open opens the DuckDB file at cfg.Path. An empty path opens an
// in-memory database.
func Open(ctx context.Context, cfg domain.DatabaseConfig) (*Warehouse, error) {
	db, err := sql.Open("duckdb", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConnectionFailed, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrConnectionFailed, err)
	}
	return &Warehouse{cfg: cfg, db: db, limiter: sqlbase.NewLimiter(cfg.QueriesPerSecond)}, nil
}

// Type returns the warehouse type discriminator.
func (w *Warehouse) Type() string { return domain.TypeDuckDB }

// DatabaseName returns the configured name, falling back to the file
// name without extension.
func (w *Warehouse) DatabaseName() string {
	if w.cfg.Name != "" {
		return w.cfg.Name
	}
	base := filepath.Base(w.cfg.Path)
	if base == "." || base == string(filepath.Separator) {
		return "memory"
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Schemas returns the resolved schema set.
func (w *Warehouse) Schemas(ctx context.Context) ([]string, error) {
	return sqlbase.ResolveSchemas(ctx, w.cfg, systemSchemas, w.listSchemas)
}

func (w *Warehouse) listSchemas(ctx context.Context) ([]string, error) {
	rows, err := w.db.QueryContext(ctx,
		"SELECT schema_name FROM information_schema.schemata ORDER BY schema_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schemas []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		schemas = append(schemas, name)
	}
	return schemas, rows.Err()
}

// Tables enumerates the tables of a schema.
func (w *Warehouse) Tables(ctx context.Context, schema string) ([]string, error) {
	rows, err := w.db.QueryContext(ctx,
		"SELECT table_name FROM information_schema.tables WHERE table_schema = ? ORDER BY table_name",
		schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchemaEnumeration, err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSchemaEnumeration, err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchemaEnumeration, err)
	}
	return tables, nil
}

// TableContext builds the generic capability context; DuckDB needs no
// dialect overrides.
func (w *Warehouse) TableContext(schema, table string) driven.TableContext {
	return sqlbase.NewContext(w.db, schema, table, sqlbase.AnsiQuote, w.limiter)
}

// Check probes connectivity.
func (w *Warehouse) Check(ctx context.Context) (string, error) {
	schemas, err := w.Schemas(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("connected (%d schemas found)", len(schemas)), nil
}

// Close releases the session.
func (w *Warehouse) Close() error { return w.db.Close() }
