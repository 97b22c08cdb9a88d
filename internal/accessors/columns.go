package accessors

import (
	"context"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
)

// Ensure ColumnsAccessor implements the interface.
var _ Accessor = (*ColumnsAccessor)(nil)

// ColumnsAccessor renders the column list artifact.
type ColumnsAccessor struct {
	renderer driven.Renderer
}

// NewColumnsAccessor creates a columns accessor.
func NewColumnsAccessor(renderer driven.Renderer) *ColumnsAccessor {
	return &ColumnsAccessor{renderer: renderer}
}

// Filename returns the artifact name.
func (a *ColumnsAccessor) Filename() string { return "columns.md" }

// Generate renders the column metadata for a table.
func (a *ColumnsAccessor) Generate(ctx context.Context, tc driven.TableContext, schema, table string) string {
	cols, err := tc.Columns(ctx)
	if err != nil {
		return errorArtifact(table, err)
	}

	doc := &domain.TableDoc{
		Table:            table,
		Schema:           schema,
		Columns:          cols,
		ColumnCount:      len(cols),
		PartitionColumns: tc.PartitionColumns(ctx),
	}
	text, err := a.renderer.RenderColumns(doc)
	if err != nil {
		return errorArtifact(table, err)
	}
	return text
}
