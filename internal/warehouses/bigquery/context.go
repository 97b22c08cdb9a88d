package bigquery

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"golang.org/x/time/rate"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/logger"
	"github.com/datascribe-labs/datascribe-cli/internal/warehouses/sqlbase"
)

// tableContext is the BigQuery capability context. Table metadata is
// fetched once and reused across calls on the same context.
type tableContext struct {
	client    *bigquery.Client
	projectID string
	dataset   string
	table     string
	limiter   *rate.Limiter

	meta *bigquery.TableMetadata
}

func (c *tableContext) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// metadata lazily fetches and caches the table metadata.
func (c *tableContext) metadata(ctx context.Context) (*bigquery.TableMetadata, error) {
	if c.meta != nil {
		return c.meta, nil
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	meta, err := c.client.Dataset(c.dataset).Table(c.table).Metadata(ctx)
	if err != nil {
		return nil, err
	}
	c.meta = meta
	return meta, nil
}

// query runs a SQL statement and collects the rows as maps.
func (c *tableContext) query(ctx context.Context, sql string) ([]map[string]bigquery.Value, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	it, err := c.client.Query(sql).Read(ctx)
	if err != nil {
		return nil, err
	}
	var rows []map[string]bigquery.Value
	for {
		var row map[string]bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// formatFieldType canonicalises a BigQuery field type.
func formatFieldType(f *bigquery.FieldSchema) string {
	t := strings.ToLower(string(f.Type))
	if f.Repeated {
		t = "array<" + t + ">"
	}
	if f.Required {
		return t + " NOT NULL"
	}
	return t
}

// mergeDistinct concatenates two column lists, keeping the first
// occurrence of each name.
func mergeDistinct(first, second []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, name := range first {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, name := range second {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Columns returns column metadata from the table schema, overlaying
// column descriptions from INFORMATION_SCHEMA.COLUMN_FIELD_PATHS
// best-effort.
func (c *tableContext) Columns(ctx context.Context) ([]domain.Column, error) {
	meta, err := c.metadata(ctx)
	if err != nil {
		return nil, err
	}

	cols := make([]domain.Column, 0, len(meta.Schema))
	for _, f := range meta.Schema {
		cols = append(cols, domain.Column{
			Name:        f.Name,
			Type:        formatFieldType(f),
			Nullable:    !f.Required,
			Description: f.Description,
		})
	}

	if descs := c.fieldPathDescriptions(ctx); len(descs) > 0 {
		for i := range cols {
			if desc, ok := descs[cols[i].Name]; ok {
				cols[i].Description = desc
			}
		}
	}
	return cols, nil
}

// fieldPathDescriptions fetches column descriptions from
// COLUMN_FIELD_PATHS. Best-effort: nil on any failure.
func (c *tableContext) fieldPathDescriptions(ctx context.Context) map[string]string {
	sql := fmt.Sprintf(`
		SELECT column_name, description
		FROM `+"`%s.%s.INFORMATION_SCHEMA.COLUMN_FIELD_PATHS`"+`
		WHERE table_name = '%s' AND description IS NOT NULL AND description != ''`,
		c.projectID, c.dataset, sqlbase.EscapeString(c.table))
	rows, err := c.query(ctx, sql)
	if err != nil {
		logger.Debug("bigquery: column descriptions lookup failed for %s.%s: %v", c.dataset, c.table, err)
		return nil
	}
	descs := make(map[string]string, len(rows))
	for _, row := range rows {
		name, _ := row["column_name"].(string)
		desc, _ := row["description"].(string)
		if name != "" && desc != "" {
			descs[name] = desc
		}
	}
	return descs
}

// Preview returns up to limit rows, with values coerced for preview
// safety.
func (c *tableContext) Preview(ctx context.Context, limit int) ([]domain.Row, error) {
	sql := fmt.Sprintf("SELECT * FROM `%s.%s.%s` LIMIT %d", c.projectID, c.dataset, c.table, limit)
	rows, err := c.query(ctx, sql)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Row, 0, len(rows))
	for _, row := range rows {
		converted := make(domain.Row, len(row))
		for k, v := range row {
			converted[k] = sqlbase.NormalizeValue(v)
		}
		out = append(out, converted)
	}
	return out, nil
}

// RowCount returns the row count from table metadata, a catalog read.
func (c *tableContext) RowCount(ctx context.Context) (int64, error) {
	meta, err := c.metadata(ctx)
	if err != nil {
		return 0, err
	}
	return int64(meta.NumRows), nil
}

// ColumnCount returns the number of columns.
func (c *tableContext) ColumnCount(ctx context.Context) (int, error) {
	meta, err := c.metadata(ctx)
	if err != nil {
		return 0, err
	}
	return len(meta.Schema), nil
}

// PartitionColumns returns partitioning columns followed by clustering
// columns (in clustering order), de-duplicated by first occurrence.
// Empty on any lookup failure.
func (c *tableContext) PartitionColumns(ctx context.Context) []string {
	partitionSQL := fmt.Sprintf(`
		SELECT column_name
		FROM `+"`%s.%s.INFORMATION_SCHEMA.COLUMNS`"+`
		WHERE table_name = '%s' AND is_partitioning_column = 'YES'`,
		c.projectID, c.dataset, sqlbase.EscapeString(c.table))
	clusteringSQL := fmt.Sprintf(`
		SELECT column_name
		FROM `+"`%s.%s.INFORMATION_SCHEMA.COLUMNS`"+`
		WHERE table_name = '%s' AND clustering_ordinal_position IS NOT NULL
		ORDER BY clustering_ordinal_position`,
		c.projectID, c.dataset, sqlbase.EscapeString(c.table))

	partitions, err := c.columnNameQuery(ctx, partitionSQL)
	if err != nil {
		logger.Debug("bigquery: partition columns lookup failed for %s.%s: %v", c.dataset, c.table, err)
		return nil
	}
	clustering, err := c.columnNameQuery(ctx, clusteringSQL)
	if err != nil {
		logger.Debug("bigquery: clustering columns lookup failed for %s.%s: %v", c.dataset, c.table, err)
		return partitions
	}
	return mergeDistinct(partitions, clustering)
}

func (c *tableContext) columnNameQuery(ctx context.Context, sql string) ([]string, error) {
	rows, err := c.query(ctx, sql)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, row := range rows {
		if name, ok := row["column_name"].(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Description returns the table description from
// INFORMATION_SCHEMA.TABLE_OPTIONS, empty when missing or on error.
func (c *tableContext) Description(ctx context.Context) string {
	sql := fmt.Sprintf(`
		SELECT option_value
		FROM `+"`%s.%s.INFORMATION_SCHEMA.TABLE_OPTIONS`"+`
		WHERE table_name = '%s' AND option_name = 'description'`,
		c.projectID, c.dataset, sqlbase.EscapeString(c.table))
	rows, err := c.query(ctx, sql)
	if err != nil {
		return ""
	}
	for _, row := range rows {
		if val, ok := row["option_value"].(string); ok {
			if desc := strings.Trim(strings.TrimSpace(val), `"`); desc != "" {
				return desc
			}
		}
	}
	return ""
}

// Indexes is not a BigQuery concept.
func (c *tableContext) Indexes(_ context.Context) string { return "" }
