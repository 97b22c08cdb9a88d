// Package accessors produces the per-table documentation artifacts.
// Each accessor pulls data through a table capability context, hands it
// to the renderer collaborator, and never fails: any retrieval or
// rendering error degrades to a minimal error artifact so a single
// broken table never blocks sibling artifacts or sibling tables.
package accessors

import (
	"context"
	"fmt"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
)

// Accessor produces one artifact kind.
type Accessor interface {
	// Filename is the artifact file name, fixed per kind.
	Filename() string

	// Generate renders the artifact for a table. It never fails;
	// errors degrade to an error artifact.
	Generate(ctx context.Context, tc driven.TableContext, schema, table string) string
}

// errorArtifact is the degraded artifact: table heading plus an
// explicit error message. The only Markdown the core constructs itself.
func errorArtifact(table string, err error) string {
	return fmt.Sprintf("# %s\n\nError generating content: %v\n", table, err)
}

// DefaultPreviewRows bounds the preview artifact when the database
// config does not override it.
const DefaultPreviewRows = 10

// ForConfig returns the accessors selected for a database. An empty
// selection means every kind; the indexes accessor is only included for
// families that support the concept.
func ForConfig(cfg domain.DatabaseConfig, renderer driven.Renderer) []Accessor {
	previewRows := cfg.PreviewRows
	if previewRows <= 0 {
		previewRows = DefaultPreviewRows
	}

	all := map[string]Accessor{
		domain.AccessorColumns:     NewColumnsAccessor(renderer),
		domain.AccessorPreview:     NewPreviewAccessor(renderer, previewRows),
		domain.AccessorDescription: NewDescriptionAccessor(renderer),
		domain.AccessorProfiling:   NewProfilingAccessor(renderer),
		domain.AccessorIndexes:     NewIndexesAccessor(renderer),
	}

	selection := cfg.Accessors
	if len(selection) == 0 {
		selection = []string{
			domain.AccessorColumns,
			domain.AccessorPreview,
			domain.AccessorDescription,
			domain.AccessorProfiling,
			domain.AccessorIndexes,
		}
	}

	var accs []Accessor
	for _, kind := range selection {
		if kind == domain.AccessorIndexes && !supportsIndexes(cfg.Type) {
			continue
		}
		if acc, ok := all[kind]; ok {
			accs = append(accs, acc)
		}
	}
	return accs
}

// supportsIndexes reports whether a warehouse family has a structural
// definition worth a dedicated artifact.
func supportsIndexes(warehouseType string) bool {
	switch warehouseType {
	case domain.TypeClickHouse, domain.TypeSQLite:
		return true
	default:
		return false
	}
}
