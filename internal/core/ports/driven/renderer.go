package driven

import "github.com/datascribe-labs/datascribe-cli/internal/core/domain"

// Renderer turns structured table metadata into artifact text. It is an
// external collaborator: the core never constructs Markdown itself
// except for the degraded error-artifact path in the accessors.
type Renderer interface {
	RenderColumns(doc *domain.TableDoc) (string, error)
	RenderPreview(doc *domain.TableDoc) (string, error)
	RenderDescription(doc *domain.TableDoc) (string, error)
	RenderProfiling(doc *domain.TableDoc) (string, error)
	RenderIndexes(doc *domain.TableDoc) (string, error)
}
