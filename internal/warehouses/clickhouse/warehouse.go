// Package clickhouse implements the warehouse ports for ClickHouse.
//
// The capability context never introspects the live table object for
// column metadata; it reads system.columns, system.tables and SHOW
// CREATE TABLE instead, so catalog operations keep working for tables
// whose engine forbids direct reads. Preview projections are built from
// the table definition: AggregateFunction columns are wrapped in the
// -Merge combinator so the value returned is a meaningful scalar.
package clickhouse

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"golang.org/x/time/rate"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
	"github.com/datascribe-labs/datascribe-cli/internal/warehouses/sqlbase"
)

// Ensure Warehouse implements the port.
var _ driven.Warehouse = (*Warehouse)(nil)

// Built-in databases excluded from sync (system tables can hang or
// require ZooKeeper).
var systemSchemas = map[string]struct{}{
	"system":             {},
	"INFORMATION_SCHEMA": {},
	"information_schema": {},
}

// Warehouse is an open ClickHouse session.
type Warehouse struct {
	cfg     domain.DatabaseConfig
	db      *sql.DB
	limiter *rate.Limiter
}

// Open connects over the native protocol (9000 plain, 9440 secure by
// default).
func Open(ctx context.Context, cfg domain.DatabaseConfig) (*Warehouse, error) {
	port := cfg.Port
	if port == 0 {
		port = 9000
		if cfg.Secure {
			port = 9440
		}
	}
	opts := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
	}
	if cfg.Secure {
		opts.TLS = &tls.Config{}
	}

	db := clickhouse.OpenDB(opts)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrConnectionFailed, err)
	}
	return &Warehouse{cfg: cfg, db: db, limiter: sqlbase.NewLimiter(cfg.QueriesPerSecond)}, nil
}

// Type returns the warehouse type discriminator.
func (w *Warehouse) Type() string { return domain.TypeClickHouse }

// DatabaseName returns the configured name, falling back to the
// connection database.
func (w *Warehouse) DatabaseName() string {
	if w.cfg.Name != "" {
		return w.cfg.Name
	}
	return w.cfg.Database
}

// Schemas returns the resolved database set. ClickHouse schemas are
// databases.
func (w *Warehouse) Schemas(ctx context.Context) ([]string, error) {
	return sqlbase.ResolveSchemas(ctx, w.cfg, systemSchemas, w.listDatabases)
}

func (w *Warehouse) listDatabases(ctx context.Context) ([]string, error) {
	rows, err := w.db.QueryContext(ctx, "SELECT name FROM system.databases ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dbs []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		dbs = append(dbs, name)
	}
	return dbs, rows.Err()
}

// Tables enumerates the tables of a database from system.tables.
func (w *Warehouse) Tables(ctx context.Context, schema string) ([]string, error) {
	rows, err := w.db.QueryContext(ctx,
		"SELECT name FROM system.tables WHERE database = ? ORDER BY name", schema)
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

// TableContext builds the ClickHouse capability context.
func (w *Warehouse) TableContext(schema, table string) driven.TableContext {
	return &tableContext{db: w.db, database: schema, table: table, limiter: w.limiter}
}

// Check probes connectivity.
func (w *Warehouse) Check(ctx context.Context) (string, error) {
	dbs, err := w.listDatabases(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("connected (%d databases found)", len(dbs)), nil
}

// Close releases the session.
func (w *Warehouse) Close() error { return w.db.Close() }
