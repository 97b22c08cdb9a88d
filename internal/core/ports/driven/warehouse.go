package driven

import (
	"context"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
)

// Warehouse is an open session against one configured database.
// Implementations wrap a driver for their warehouse family; a Warehouse
// is used by one sync at a time and closed when the database's sync
// finishes.
type Warehouse interface {
	// Type returns the warehouse type discriminator (domain.Type*).
	Type() string

	// DatabaseName returns the logical database name used in the output
	// tree ("database=<name>").
	DatabaseName() string

	// Schemas returns the resolved schema set for this database: the
	// configured pin or include-list when present, otherwise all
	// user-visible schemas minus the family's system deny-list.
	Schemas(ctx context.Context) ([]string, error)

	// Tables enumerates the tables of a schema. A failure here is fatal
	// for that schema only.
	Tables(ctx context.Context, schema string) ([]string, error)

	// TableContext builds the capability context for one table. The
	// context is stateless apart from its fallback flag and must not be
	// shared across concurrent operations.
	TableContext(schema, table string) TableContext

	// Check probes connectivity, returning a short human-readable
	// summary on success.
	Check(ctx context.Context) (string, error)

	// Close releases the session and any tunnel behind it.
	Close() error
}

// TableContext exposes one uniform read contract over a single table,
// absorbing warehouse-specific quirks.
//
// Error policy: PartitionColumns, Description and Indexes never fail;
// they return an empty value on any lookup error. Columns, Preview,
// RowCount and ColumnCount return errors only for failures with no
// sensible empty value; accessors catch those at their boundary.
type TableContext interface {
	// Columns returns ordered column metadata. Must not fail for a
	// structurally valid table; on catalog-query failure it returns the
	// best metadata it can assemble (e.g. without descriptions).
	Columns(ctx context.Context) ([]domain.Column, error)

	// Preview returns up to limit rows. Every value is representable as
	// text or a JSON scalar/array/object.
	Preview(ctx context.Context, limit int) ([]domain.Row, error)

	// RowCount returns the table's row count, degrading to 0 when the
	// warehouse structurally forbids reading the table.
	RowCount(ctx context.Context) (int64, error)

	// ColumnCount returns the number of columns.
	ColumnCount(ctx context.Context) (int, error)

	// PartitionColumns returns partition/clustering column names in
	// order, empty when not applicable or not discoverable.
	PartitionColumns(ctx context.Context) []string

	// Description returns the table comment, empty when unavailable.
	Description(ctx context.Context) string

	// Indexes returns a free-text structural definition (DDL, ordering
	// keys, index list), empty when not applicable.
	Indexes(ctx context.Context) string
}

// WarehouseFactory creates a Warehouse from a database configuration,
// selected by the Type discriminator.
type WarehouseFactory interface {
	Create(ctx context.Context, cfg domain.DatabaseConfig) (Warehouse, error)
}
