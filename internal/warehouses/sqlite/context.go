package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/warehouses/sqlbase"
)

// tableContext overrides the generic context where SQLite has no
// information_schema: columns come from PRAGMA table_info and the
// structural definition from sqlite_master.
type tableContext struct {
	*sqlbase.Context
}

// Columns returns column metadata from PRAGMA table_info.
func (c *tableContext) Columns(ctx context.Context) ([]domain.Column, error) {
	if err := c.Wait(ctx); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("PRAGMA table_info(%s)", c.QuoteIdent(c.TableName()))
	rows, err := c.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []domain.Column
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             any
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		nullable := notNull == 0
		cols = append(cols, domain.Column{
			Name:     name,
			Type:     sqlbase.FormatType(colType, nullable),
			Nullable: nullable,
		})
	}
	return cols, rows.Err()
}

// ColumnCount returns the number of columns via PRAGMA table_info.
func (c *tableContext) ColumnCount(ctx context.Context) (int, error) {
	cols, err := c.Columns(ctx)
	if err != nil {
		return 0, err
	}
	return len(cols), nil
}

// Indexes returns the CREATE statements recorded in sqlite_master for
// the table and its indexes. Empty on any lookup failure.
func (c *tableContext) Indexes(ctx context.Context) string {
	if err := c.Wait(ctx); err != nil {
		return ""
	}
	rows, err := c.DB().QueryContext(ctx,
		"SELECT sql FROM sqlite_master WHERE tbl_name = ? AND sql IS NOT NULL ORDER BY type DESC, name",
		c.TableName())
	if err != nil {
		return ""
	}
	defer rows.Close()

	var stmts []string
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return ""
		}
		stmts = append(stmts, strings.TrimSpace(stmt))
	}
	if rows.Err() != nil {
		return ""
	}
	return strings.Join(stmts, ";\n\n")
}
