package accessors

import (
	"context"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
)

// Ensure DescriptionAccessor implements the interface.
var _ Accessor = (*DescriptionAccessor)(nil)

// maxDescriptionLen bounds the description artifact; longer comments
// are middle-truncated.
const maxDescriptionLen = 2000

// DescriptionAccessor renders the table description artifact.
type DescriptionAccessor struct {
	renderer driven.Renderer
}

// NewDescriptionAccessor creates a description accessor.
func NewDescriptionAccessor(renderer driven.Renderer) *DescriptionAccessor {
	return &DescriptionAccessor{renderer: renderer}
}

// Filename returns the artifact name.
func (a *DescriptionAccessor) Filename() string { return "description.md" }

// Generate renders the table comment.
func (a *DescriptionAccessor) Generate(ctx context.Context, tc driven.TableContext, schema, table string) string {
	doc := &domain.TableDoc{
		Table:       table,
		Schema:      schema,
		Description: TruncateMiddle(tc.Description(ctx), maxDescriptionLen),
	}
	text, err := a.renderer.RenderDescription(doc)
	if err != nil {
		return errorArtifact(table, err)
	}
	return text
}
