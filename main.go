package main

import (
	"context"
	"fmt"
	"os"

	"github.com/datascribe-labs/datascribe-cli/internal/adapters/driven/config/file"
	"github.com/datascribe-labs/datascribe-cli/internal/adapters/driven/render/markdown"
	"github.com/datascribe-labs/datascribe-cli/internal/adapters/driving/cli"
	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
	"github.com/datascribe-labs/datascribe-cli/internal/core/services"
	"github.com/datascribe-labs/datascribe-cli/internal/warehouses/bigquery"
	"github.com/datascribe-labs/datascribe-cli/internal/warehouses/clickhouse"
	"github.com/datascribe-labs/datascribe-cli/internal/warehouses/duckdb"
	"github.com/datascribe-labs/datascribe-cli/internal/warehouses/redshift"
	"github.com/datascribe-labs/datascribe-cli/internal/warehouses/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	renderer, err := markdown.NewRenderer()
	if err != nil {
		return err
	}

	registry := services.NewWarehouseRegistry()
	registry.Register(domain.TypeDuckDB, func(ctx context.Context, cfg domain.DatabaseConfig) (driven.Warehouse, error) {
		return duckdb.Open(ctx, cfg)
	})
	registry.Register(domain.TypeSQLite, func(ctx context.Context, cfg domain.DatabaseConfig) (driven.Warehouse, error) {
		return sqlite.Open(ctx, cfg)
	})
	registry.Register(domain.TypeClickHouse, func(ctx context.Context, cfg domain.DatabaseConfig) (driven.Warehouse, error) {
		return clickhouse.Open(ctx, cfg)
	})
	registry.Register(domain.TypeRedshift, func(ctx context.Context, cfg domain.DatabaseConfig) (driven.Warehouse, error) {
		return redshift.Open(ctx, cfg)
	})
	registry.Register(domain.TypeBigQuery, func(ctx context.Context, cfg domain.DatabaseConfig) (driven.Warehouse, error) {
		return bigquery.Open(ctx, cfg)
	})

	cli.Configure(registry, renderer, func(path string) driven.ConfigLoader {
		return file.NewLoader(path)
	})
	return cli.Execute()
}
