package driven

import "github.com/datascribe-labs/datascribe-cli/internal/core/domain"

// ConfigLoader supplies the validated project configuration. The core
// treats the result as opaque, already-validated input.
type ConfigLoader interface {
	Load() (*domain.Config, error)
}
