package redshift

import (
	"context"
	"strings"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/warehouses/sqlbase"
)

// redshiftTypeMap maps Redshift SQL types to canonical type names.
var redshiftTypeMap = map[string]string{
	"integer":                     "int32",
	"bigint":                      "int64",
	"smallint":                    "int16",
	"boolean":                     "boolean",
	"real":                        "float32",
	"double precision":            "float64",
	"numeric":                     "decimal",
	"character varying":           "string",
	"character":                   "string",
	"text":                        "string",
	"date":                        "date",
	"timestamp without time zone": "timestamp",
	"timestamp with time zone":    "timestamp",
	"super":                       "json",
}

// formatRedshiftType converts a Redshift SQL type to the canonical
// format, tagging non-nullable columns.
func formatRedshiftType(dataType string, nullable bool) string {
	t, ok := redshiftTypeMap[strings.ToLower(dataType)]
	if !ok {
		t = "string"
	}
	if !nullable {
		return t + " NOT NULL"
	}
	return t
}

// tableContext overrides the generic context with catalog-only column
// and description lookups. Introspecting the live table object walks
// pg_enum, which is broken against Redshift's driver, so every metadata
// read goes through information_schema and pg_catalog instead.
type tableContext struct {
	*sqlbase.Context
}

// Columns returns column metadata from information_schema.columns, with
// descriptions joined best-effort from pg_catalog.
func (c *tableContext) Columns(ctx context.Context) ([]domain.Column, error) {
	if err := c.Wait(ctx); err != nil {
		return nil, err
	}
	rows, err := c.DB().QueryContext(ctx, `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`,
		c.SchemaName(), c.TableName())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	descs := c.columnDescriptions(ctx)

	var cols []domain.Column
	for rows.Next() {
		var name, dataType, isNullable string
		if err := rows.Scan(&name, &dataType, &isNullable); err != nil {
			return nil, err
		}
		nullable := strings.EqualFold(isNullable, "YES")
		cols = append(cols, domain.Column{
			Name:        name,
			Type:        formatRedshiftType(dataType, nullable),
			Nullable:    nullable,
			Description: descs[name],
		})
	}
	return cols, rows.Err()
}

// ColumnCount returns the number of columns.
func (c *tableContext) ColumnCount(ctx context.Context) (int, error) {
	cols, err := c.Columns(ctx)
	if err != nil {
		return 0, err
	}
	return len(cols), nil
}

// columnDescriptions fetches column comments from pg_catalog.
// Best-effort: empty map on any failure.
func (c *tableContext) columnDescriptions(ctx context.Context) map[string]string {
	if err := c.Wait(ctx); err != nil {
		return nil
	}
	rows, err := c.DB().QueryContext(ctx, `
		SELECT a.attname, d.description
		FROM pg_catalog.pg_description d
		JOIN pg_catalog.pg_class c ON c.oid = d.objoid
		JOIN pg_catalog.pg_attribute a ON a.attrelid = c.oid AND a.attnum = d.objsubid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2 AND d.objsubid > 0`,
		c.SchemaName(), c.TableName())
	if err != nil {
		return nil
	}
	defer rows.Close()

	descs := make(map[string]string)
	for rows.Next() {
		var name, desc string
		if err := rows.Scan(&name, &desc); err != nil {
			return descs
		}
		if desc != "" {
			descs[name] = desc
		}
	}
	return descs
}

// Description returns the table comment from pg_catalog, empty when
// missing or on error.
func (c *tableContext) Description(ctx context.Context) string {
	if err := c.Wait(ctx); err != nil {
		return ""
	}
	var desc string
	err := c.DB().QueryRowContext(ctx, `
		SELECT d.description
		FROM pg_catalog.pg_description d
		JOIN pg_catalog.pg_class c ON c.oid = d.objoid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2 AND d.objsubid = 0`,
		c.SchemaName(), c.TableName()).Scan(&desc)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(desc)
}
