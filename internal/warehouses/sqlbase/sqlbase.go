// Package sqlbase is the generic database/sql implementation of the
// table capability context, shared by the warehouse families whose
// drivers register under database/sql.
package sqlbase

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
)

// Quote quotes a single identifier for a warehouse dialect.
type Quote func(ident string) string

// AnsiQuote quotes identifiers with double quotes (DuckDB, SQLite,
// Redshift).
func AnsiQuote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// BacktickQuote quotes identifiers with backticks (ClickHouse).
func BacktickQuote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

// EscapeString escapes a string literal for embedding in single quotes.
// Identifiers come from the warehouse catalog or validated config, this
// guards against names containing quotes.
func EscapeString(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `'`, `''`)
}

// NormalizeValue coerces a scanned value into something representable
// as text or a JSON scalar/array/object. Strings, numbers, booleans,
// nils, slices and maps pass through; byte slices become strings,
// timestamps become RFC 3339 text, everything else is stringified.
func NormalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = NormalizeValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = NormalizeValue(e)
		}
		return out
	default:
		return fmt.Sprint(val)
	}
}

// NormalizeRow applies NormalizeValue to every value of a row.
func NormalizeRow(row domain.Row) domain.Row {
	out := make(domain.Row, len(row))
	for k, v := range row {
		out[k] = NormalizeValue(v)
	}
	return out
}

// FormatType canonicalises a warehouse type string: lower-cased, with a
// NOT NULL tag for non-nullable columns (e.g. "int64 NOT NULL").
func FormatType(dataType string, nullable bool) string {
	t := strings.ToLower(strings.TrimSpace(dataType))
	if !nullable {
		return t + " NOT NULL"
	}
	return t
}

// QueryRows runs a query and scans every result row into a domain.Row
// keyed by column name, with values normalised for preview safety.
func QueryRows(ctx context.Context, db *sql.DB, query string, args ...any) ([]domain.Row, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []domain.Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(domain.Row, len(cols))
		for i, name := range cols {
			row[name] = NormalizeValue(vals[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Context is the generic capability context over one table. Family
// packages embed it and override the methods their dialect needs to
// handle differently.
type Context struct {
	db      *sql.DB
	schema  string
	table   string
	quote   Quote
	limiter *rate.Limiter
}

// NewContext builds a generic context. limiter may be nil.
func NewContext(db *sql.DB, schema, table string, quote Quote, limiter *rate.Limiter) *Context {
	return &Context{db: db, schema: schema, table: table, quote: quote, limiter: limiter}
}

// DB exposes the underlying handle to embedding family contexts.
func (c *Context) DB() *sql.DB { return c.db }

// SchemaName returns the schema this context is bound to.
func (c *Context) SchemaName() string { return c.schema }

// TableName returns the table this context is bound to.
func (c *Context) TableName() string { return c.table }

// QuoteIdent quotes an identifier in this context's dialect.
func (c *Context) QuoteIdent(ident string) string { return c.quote(ident) }

// QualifiedName returns the quoted schema.table reference.
func (c *Context) QualifiedName() string {
	return c.quote(c.schema) + "." + c.quote(c.table)
}

// Wait blocks until the query pacer admits another query.
func (c *Context) Wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// Columns returns column metadata from information_schema.columns.
func (c *Context) Columns(ctx context.Context) ([]domain.Column, error) {
	if err := c.Wait(ctx); err != nil {
		return nil, err
	}
	query := `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position`
	rows, err := c.db.QueryContext(ctx, query, c.schema, c.table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []domain.Column
	for rows.Next() {
		var name, dataType, isNullable string
		if err := rows.Scan(&name, &dataType, &isNullable); err != nil {
			return nil, err
		}
		nullable := strings.EqualFold(isNullable, "YES")
		cols = append(cols, domain.Column{
			Name:     name,
			Type:     FormatType(dataType, nullable),
			Nullable: nullable,
		})
	}
	return cols, rows.Err()
}

// Preview returns up to limit rows of the table.
func (c *Context) Preview(ctx context.Context, limit int) ([]domain.Row, error) {
	if err := c.Wait(ctx); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", c.QualifiedName(), limit)
	return QueryRows(ctx, c.db, query)
}

// RowCount returns the table's total row count.
func (c *Context) RowCount(ctx context.Context) (int64, error) {
	if err := c.Wait(ctx); err != nil {
		return 0, err
	}
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", c.QualifiedName())
	var count int64
	if err := c.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ColumnCount returns the number of columns.
func (c *Context) ColumnCount(ctx context.Context) (int, error) {
	cols, err := c.Columns(ctx)
	if err != nil {
		return 0, err
	}
	return len(cols), nil
}

// PartitionColumns is empty for the generic context.
func (c *Context) PartitionColumns(_ context.Context) []string { return nil }

// Description is empty for the generic context.
func (c *Context) Description(_ context.Context) string { return "" }

// Indexes is empty for the generic context.
func (c *Context) Indexes(_ context.Context) string { return "" }
