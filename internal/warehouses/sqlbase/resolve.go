package sqlbase

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
)

// NewLimiter builds a query pacer from a queries-per-second setting.
// Returns nil (unlimited) when qps is zero or negative.
func NewLimiter(qps float64) *rate.Limiter {
	if qps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(qps), 1)
}

// ResolveSchemas applies the schema-resolution contract: a pinned schema
// or explicit include-list is used exactly as configured; otherwise the
// warehouse is asked for all user-visible schemas and the family's
// system deny-list is subtracted.
func ResolveSchemas(
	ctx context.Context,
	cfg domain.DatabaseConfig,
	deny map[string]struct{},
	list func(context.Context) ([]string, error),
) ([]string, error) {
	if cfg.Schema != "" {
		return []string{cfg.Schema}, nil
	}
	if len(cfg.SchemasInclude) > 0 {
		return append([]string(nil), cfg.SchemasInclude...), nil
	}

	all, err := list(ctx)
	if err != nil {
		return nil, err
	}
	schemas := make([]string, 0, len(all))
	for _, s := range all {
		if _, system := deny[s]; system {
			continue
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}
