// Package sqlite implements the warehouse ports for SQLite files using
// the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"
	_ "modernc.org/sqlite"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
	"github.com/datascribe-labs/datascribe-cli/internal/warehouses/sqlbase"
)

// Ensure Warehouse implements the port.
var _ driven.Warehouse = (*Warehouse)(nil)

// mainSchema is SQLite's only user schema.
const mainSchema = "main"

// Warehouse is an open SQLite session.
type Warehouse struct {
	cfg     domain.DatabaseConfig
	db      *sql.DB
	limiter *rate.Limiter
}

// Open opens the SQLite file at cfg.Path.
func Open(ctx context.Context, cfg domain.DatabaseConfig) (*Warehouse, error) {
	db, err := sql.Open("sqlite", cfg.Path)
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
func (w *Warehouse) Type() string { return domain.TypeSQLite }

// DatabaseName returns the configured name, falling back to the file
// name without extension.
func (w *Warehouse) DatabaseName() string {
	if w.cfg.Name != "" {
		return w.cfg.Name
	}
	base := filepath.Base(w.cfg.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Schemas returns the single "main" schema. A pin is honoured verbatim.
func (w *Warehouse) Schemas(_ context.Context) ([]string, error) {
	if w.cfg.Schema != "" {
		return []string{w.cfg.Schema}, nil
	}
	return []string{mainSchema}, nil
}

// Tables enumerates user tables from sqlite_master.
func (w *Warehouse) Tables(ctx context.Context, _ string) ([]string, error) {
	rows, err := w.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
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

// TableContext builds the SQLite capability context.
func (w *Warehouse) TableContext(schema, table string) driven.TableContext {
	return &tableContext{
		Context: sqlbase.NewContext(w.db, schema, table, sqlbase.AnsiQuote, w.limiter),
	}
}

// Check probes connectivity.
func (w *Warehouse) Check(ctx context.Context) (string, error) {
	tables, err := w.Tables(ctx, mainSchema)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("connected (%d tables found)", len(tables)), nil
}

// Close releases the session.
func (w *Warehouse) Close() error { return w.db.Close() }
