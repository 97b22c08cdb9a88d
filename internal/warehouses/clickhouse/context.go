package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"golang.org/x/time/rate"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/logger"
	"github.com/datascribe-labs/datascribe-cli/internal/warehouses/sqlbase"
)

// Stream-like engines (Kafka, RabbitMQ, FileLog) disallow direct SELECT
// by default; the server signals this with error code 620.
const codeDirectSelectDisallowed = 620

var directSelectMarkers = []string{
	"Direct select is not allowed",
	"stream_like_engine_allow_direct_select",
}

// isDirectSelectDisallowed classifies the stable read-forbidden
// condition that triggers catalog-only fallback.
func isDirectSelectDisallowed(err error) bool {
	if err == nil {
		return false
	}
	var ex *clickhouse.Exception
	if errors.As(err, &ex) && ex.Code == codeDirectSelectDisallowed {
		return true
	}
	msg := err.Error()
	for _, marker := range directSelectMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// AggregateFunction(f, ...) -> first argument is the function name.
// Anchored so SimpleAggregateFunction columns, which store final values
// and need no combinator, do not match.
var aggregateFunctionPattern = regexp.MustCompile(`(?i)^\s*aggregatefunction\s*\(\s*(\w+)`)

// aggregateFunctionName returns the function name of an
// AggregateFunction column type (e.g. "uniq"), or "" for plain columns.
func aggregateFunctionName(colType string) string {
	m := aggregateFunctionPattern.FindStringSubmatch(colType)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// catalogColumn is one system.columns entry.
type catalogColumn struct {
	name           string
	colType        string
	comment        string
	inPartitionKey bool
}

// buildPreviewProjection builds one SELECT expression per column from
// the table definition. Plain columns are selected as-is;
// AggregateFunction columns use the -Merge combinator (e.g.
// uniqMerge(`col`)) so the partial aggregate state reads as a scalar.
func buildPreviewProjection(cols []catalogColumn) []string {
	parts := make([]string, 0, len(cols))
	for _, col := range cols {
		quoted := sqlbase.BacktickQuote(col.name)
		if fn := aggregateFunctionName(col.colType); fn != "" {
			parts = append(parts, fmt.Sprintf("%sMerge(%s) AS %s", fn, quoted, quoted))
		} else {
			parts = append(parts, quoted)
		}
	}
	return parts
}

// tableContext is the ClickHouse capability context. fallback is a
// one-way switch: once a direct read hits the stream-engine prohibition,
// every later call on this context takes the catalog-only path.
type tableContext struct {
	db       *sql.DB
	database string
	table    string
	limiter  *rate.Limiter
	fallback bool
}

func (c *tableContext) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *tableContext) qualifiedName() string {
	return sqlbase.BacktickQuote(c.database) + "." + sqlbase.BacktickQuote(c.table)
}

// enterFallback flips the context into catalog-only mode. Never
// reverted.
func (c *tableContext) enterFallback() {
	if !c.fallback {
		c.fallback = true
		logger.Debug("clickhouse: direct select not allowed for %s.%s; using catalog-only path for this table",
			c.database, c.table)
	}
}

// catalogColumns reads the table definition from system.columns,
// without selecting from the table itself.
func (c *tableContext) catalogColumns(ctx context.Context) ([]catalogColumn, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT name, type, comment, is_in_partition_key
		 FROM system.columns
		 WHERE database = ? AND table = ?
		 ORDER BY position`,
		c.database, c.table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []catalogColumn
	for rows.Next() {
		var (
			col         catalogColumn
			inPartition uint8
		)
		if err := rows.Scan(&col.name, &col.colType, &col.comment, &inPartition); err != nil {
			return nil, err
		}
		col.inPartitionKey = inPartition == 1
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

// showCreateTable returns the table DDL, or "" on any error.
func (c *tableContext) showCreateTable(ctx context.Context) string {
	if err := c.wait(ctx); err != nil {
		return ""
	}
	var ddl string
	query := fmt.Sprintf("SHOW CREATE TABLE %s", c.qualifiedName())
	if err := c.db.QueryRowContext(ctx, query).Scan(&ddl); err != nil {
		return ""
	}
	return strings.TrimSpace(ddl)
}

// ddlRows is the preview substitute for tables that cannot be read:
// a single row holding the CREATE TABLE statement.
func (c *tableContext) ddlRows(ctx context.Context) []domain.Row {
	if ddl := c.showCreateTable(ctx); ddl != "" {
		return []domain.Row{{"create_table": ddl}}
	}
	return nil
}

// Columns returns column metadata from system.columns. Catalog-only, so
// it works identically before and after fallback.
func (c *tableContext) Columns(ctx context.Context) ([]domain.Column, error) {
	cols, err := c.catalogColumns(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Column, 0, len(cols))
	for _, col := range cols {
		out = append(out, domain.Column{
			Name:        col.name,
			Type:        col.colType,
			Nullable:    strings.Contains(col.colType, "Nullable("),
			Description: col.comment,
		})
	}
	return out, nil
}

// Preview builds its SELECT from the table definition. Once the
// stream-engine prohibition is detected the context switches to the
// catalog-only path (DDL row) for good.
func (c *tableContext) Preview(ctx context.Context, limit int) ([]domain.Row, error) {
	if c.fallback {
		return c.ddlRows(ctx), nil
	}

	cols, err := c.catalogColumns(ctx)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return c.ddlRows(ctx), nil
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	projection := strings.Join(buildPreviewProjection(cols), ", ")
	query := fmt.Sprintf("SELECT %s FROM %s LIMIT %d", projection, c.qualifiedName(), limit)
	rows, err := sqlbase.QueryRows(ctx, c.db, query)
	if err != nil {
		if isDirectSelectDisallowed(err) {
			c.enterFallback()
		} else {
			logger.Debug("clickhouse: preview query failed for %s.%s: %v; returning DDL",
				c.database, c.table, err)
		}
		return c.ddlRows(ctx), nil
	}
	return rows, nil
}

// RowCount returns the row count; 0 for tables whose engine forbids
// direct reads, since a definitive count is unobtainable.
func (c *tableContext) RowCount(ctx context.Context) (int64, error) {
	if c.fallback {
		return 0, nil
	}
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	var count int64
	query := fmt.Sprintf("SELECT count() FROM %s", c.qualifiedName())
	if err := c.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		if isDirectSelectDisallowed(err) {
			c.enterFallback()
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

// ColumnCount returns the number of columns from system.columns.
func (c *tableContext) ColumnCount(ctx context.Context) (int, error) {
	cols, err := c.catalogColumns(ctx)
	if err != nil {
		return 0, err
	}
	return len(cols), nil
}

// PartitionColumns returns the partition key columns in definition
// order. Empty on any lookup failure.
func (c *tableContext) PartitionColumns(ctx context.Context) []string {
	cols, err := c.catalogColumns(ctx)
	if err != nil {
		return nil
	}
	var partitions []string
	for _, col := range cols {
		if col.inPartitionKey {
			partitions = append(partitions, col.name)
		}
	}
	return partitions
}

// Description returns the table comment from system.tables, empty when
// missing or on error.
func (c *tableContext) Description(ctx context.Context) string {
	if err := c.wait(ctx); err != nil {
		return ""
	}
	var comment string
	err := c.db.QueryRowContext(ctx,
		"SELECT comment FROM system.tables WHERE database = ? AND name = ?",
		c.database, c.table).Scan(&comment)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(comment)
}

// Indexes returns the table DDL so consumers see ORDER BY, PRIMARY KEY,
// PARTITION BY and skip indexes.
func (c *tableContext) Indexes(ctx context.Context) string {
	return c.showCreateTable(ctx)
}
