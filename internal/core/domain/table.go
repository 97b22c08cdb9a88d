package domain

// Column describes one column of a warehouse table.
type Column struct {
	// Name is the column name as reported by the warehouse catalog.
	Name string

	// Type is the canonical type string. Non-nullable columns carry a
	// " NOT NULL" suffix (e.g. "int64 NOT NULL").
	Type string

	// Nullable reports whether the column accepts NULL values.
	Nullable bool

	// Description is the column comment, best-effort. Empty when the
	// warehouse has none or the lookup failed.
	Description string
}

// Row is one preview row, keyed by column name. Every value is a string,
// number, boolean, nil, slice or map; anything else is coerced to its
// string form before it reaches a Row.
type Row map[string]any

// TableDoc is the structured payload handed to the renderer when
// producing a table artifact. Fields that a given artifact kind does not
// use are left at their zero value.
type TableDoc struct {
	Table            string
	Schema           string
	Columns          []Column
	Rows             []Row
	RowCount         int64
	ColumnCount      int
	PartitionColumns []string

	// Description is the table comment, empty when unavailable.
	Description string

	// Indexes is a free-text structural definition (DDL, ordering keys,
	// index list), empty for warehouses without the concept.
	Indexes string
}
