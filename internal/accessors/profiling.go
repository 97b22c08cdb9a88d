package accessors

import (
	"context"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
)

// Ensure ProfilingAccessor implements the interface.
var _ Accessor = (*ProfilingAccessor)(nil)

// ProfilingAccessor renders table shape facts: row and column counts
// and partition columns.
type ProfilingAccessor struct {
	renderer driven.Renderer
}

// NewProfilingAccessor creates a profiling accessor.
func NewProfilingAccessor(renderer driven.Renderer) *ProfilingAccessor {
	return &ProfilingAccessor{renderer: renderer}
}

// Filename returns the artifact name.
func (a *ProfilingAccessor) Filename() string { return "profiling.md" }

// Generate renders the profiling facts for a table.
func (a *ProfilingAccessor) Generate(ctx context.Context, tc driven.TableContext, schema, table string) string {
	rowCount, err := tc.RowCount(ctx)
	if err != nil {
		return errorArtifact(table, err)
	}
	colCount, err := tc.ColumnCount(ctx)
	if err != nil {
		return errorArtifact(table, err)
	}

	doc := &domain.TableDoc{
		Table:            table,
		Schema:           schema,
		RowCount:         rowCount,
		ColumnCount:      colCount,
		PartitionColumns: tc.PartitionColumns(ctx),
		Description:      TruncateMiddle(tc.Description(ctx), maxDescriptionLen),
	}
	text, err := a.renderer.RenderProfiling(doc)
	if err != nil {
		return errorArtifact(table, err)
	}
	return text
}
