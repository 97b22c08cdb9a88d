// Package warehouses contains the warehouse adapters. Each subpackage
// implements the driven.Warehouse and driven.TableContext ports for one
// warehouse family (duckdb, sqlite, clickhouse, redshift, bigquery),
// absorbing that family's dialect quirks and failure modes. Shared
// database/sql plumbing lives in sqlbase.
package warehouses
