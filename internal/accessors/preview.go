package accessors

import (
	"context"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
)

// Ensure PreviewAccessor implements the interface.
var _ Accessor = (*PreviewAccessor)(nil)

// PreviewAccessor renders a bounded sample of table rows.
type PreviewAccessor struct {
	renderer driven.Renderer
	numRows  int
}

// NewPreviewAccessor creates a preview accessor with a row bound.
func NewPreviewAccessor(renderer driven.Renderer, numRows int) *PreviewAccessor {
	return &PreviewAccessor{renderer: renderer, numRows: numRows}
}

// Filename returns the artifact name.
func (a *PreviewAccessor) Filename() string { return "preview.md" }

// NumRows returns the configured row bound.
func (a *PreviewAccessor) NumRows() int { return a.numRows }

// Generate renders up to NumRows sample rows for a table.
func (a *PreviewAccessor) Generate(ctx context.Context, tc driven.TableContext, schema, table string) string {
	rows, err := tc.Preview(ctx, a.numRows)
	if err != nil {
		return errorArtifact(table, err)
	}

	// Column order for the rendered grid; best-effort.
	cols, err := tc.Columns(ctx)
	if err != nil {
		cols = nil
	}

	doc := &domain.TableDoc{
		Table:   table,
		Schema:  schema,
		Columns: cols,
		Rows:    rows,
	}
	text, err := a.renderer.RenderPreview(doc)
	if err != nil {
		return errorArtifact(table, err)
	}
	return text
}
