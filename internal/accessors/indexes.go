package accessors

import (
	"context"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
)

// Ensure IndexesAccessor implements the interface.
var _ Accessor = (*IndexesAccessor)(nil)

// IndexesAccessor renders the structural definition artifact (DDL,
// ordering keys, index list) so a consumer understands how the table is
// organised for querying.
type IndexesAccessor struct {
	renderer driven.Renderer
}

// NewIndexesAccessor creates an indexes accessor.
func NewIndexesAccessor(renderer driven.Renderer) *IndexesAccessor {
	return &IndexesAccessor{renderer: renderer}
}

// Filename returns the artifact name.
func (a *IndexesAccessor) Filename() string { return "indexes.md" }

// Generate renders the structural definition for a table.
func (a *IndexesAccessor) Generate(ctx context.Context, tc driven.TableContext, schema, table string) string {
	doc := &domain.TableDoc{
		Table:   table,
		Schema:  schema,
		Indexes: tc.Indexes(ctx),
	}
	text, err := a.renderer.RenderIndexes(doc)
	if err != nil {
		return errorArtifact(table, err)
	}
	return text
}
