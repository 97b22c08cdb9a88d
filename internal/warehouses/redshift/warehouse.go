// Package redshift implements the warehouse ports for Amazon Redshift
// over the PostgreSQL wire protocol, optionally through an SSH tunnel.
package redshift

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/time/rate"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
	"github.com/datascribe-labs/datascribe-cli/internal/warehouses/sqlbase"
)

// Ensure Warehouse implements the port.
var _ driven.Warehouse = (*Warehouse)(nil)

// Warehouse is an open Redshift session.
type Warehouse struct {
	cfg     domain.DatabaseConfig
	db      *sql.DB
	tunnel  *sshTunnel
	limiter *rate.Limiter
}

// Open connects to the cluster. When an SSH tunnel is configured it is
// established first and the session dials the tunnel's local endpoint.
func Open(ctx context.Context, cfg domain.DatabaseConfig) (*Warehouse, error) {
	host := cfg.Host
	port := cfg.Port
	if port == 0 {
		port = 5439
	}

	var tunnel *sshTunnel
	if cfg.SSHTunnel != nil {
		var err error
		tunnel, err = startTunnel(cfg.SSHTunnel, host, port)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrConnectionFailed, err)
		}
		host = tunnel.localHost
		port = tunnel.localPort
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}
	if tunnel != nil && cfg.SSLMode == "" {
		// The tunnel already encrypts the hop and Redshift node certs
		// rarely match 127.0.0.1.
		sslMode = "prefer"
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		host, port, cfg.Database, cfg.User, cfg.Password, sslMode)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		closeTunnel(tunnel)
		return nil, fmt.Errorf("%w: %v", domain.ErrConnectionFailed, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		closeTunnel(tunnel)
		return nil, fmt.Errorf("%w: %v", domain.ErrConnectionFailed, err)
	}

	return &Warehouse{
		cfg:     cfg,
		db:      db,
		tunnel:  tunnel,
		limiter: sqlbase.NewLimiter(cfg.QueriesPerSecond),
	}, nil
}

func closeTunnel(t *sshTunnel) {
	if t != nil {
		_ = t.Close()
	}
}

// Type returns the warehouse type discriminator.
func (w *Warehouse) Type() string { return domain.TypeRedshift }

// DatabaseName returns the configured name, falling back to the cluster
// database.
func (w *Warehouse) DatabaseName() string {
	if w.cfg.Name != "" {
		return w.cfg.Name
	}
	return w.cfg.Database
}

// Schemas returns the resolved schema set. The system catalog query
// already excludes pg_* and information_schema.
func (w *Warehouse) Schemas(ctx context.Context) ([]string, error) {
	return sqlbase.ResolveSchemas(ctx, w.cfg, nil, w.listSchemas)
}

func (w *Warehouse) listSchemas(ctx context.Context) ([]string, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT nspname
		FROM pg_catalog.pg_namespace
		WHERE nspname NOT LIKE 'pg_%'
		  AND nspname != 'information_schema'
		ORDER BY nspname`)
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
	rows, err := w.db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name`, schema)
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

// TableContext builds the Redshift capability context.
func (w *Warehouse) TableContext(schema, table string) driven.TableContext {
	return &tableContext{
		Context: sqlbase.NewContext(w.db, schema, table, sqlbase.AnsiQuote, w.limiter),
	}
}

// Check probes connectivity.
func (w *Warehouse) Check(ctx context.Context) (string, error) {
	schemas, err := w.Schemas(ctx)
	if err != nil {
		return "", err
	}
	total := 0
	for _, schema := range schemas {
		tables, err := w.Tables(ctx, schema)
		if err != nil {
			return "", err
		}
		total += len(tables)
	}
	return fmt.Sprintf("connected (%d tables found)", total), nil
}

// Close releases the session and the tunnel behind it.
func (w *Warehouse) Close() error {
	err := w.db.Close()
	closeTunnel(w.tunnel)
	return err
}
