package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
)

// WarehouseConstructor opens a warehouse session for one database
// configuration.
type WarehouseConstructor func(ctx context.Context, cfg domain.DatabaseConfig) (driven.Warehouse, error)

// Ensure WarehouseRegistry implements the factory port.
var _ driven.WarehouseFactory = (*WarehouseRegistry)(nil)

// WarehouseRegistry maps warehouse type discriminators to constructors.
// Registration happens at wiring time; the registry is read-only after.
type WarehouseRegistry struct {
	constructors map[string]WarehouseConstructor
}

// NewWarehouseRegistry creates an empty registry.
func NewWarehouseRegistry() *WarehouseRegistry {
	return &WarehouseRegistry{
		constructors: make(map[string]WarehouseConstructor),
	}
}

// Register adds a constructor for a warehouse type, replacing any
// previous registration for the same type.
func (r *WarehouseRegistry) Register(warehouseType string, ctor WarehouseConstructor) {
	r.constructors[warehouseType] = ctor
}

// Types returns the registered type discriminators, sorted.
func (r *WarehouseRegistry) Types() []string {
	types := make([]string, 0, len(r.constructors))
	for t := range r.constructors {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Create opens a warehouse session for the given configuration.
func (r *WarehouseRegistry) Create(ctx context.Context, cfg domain.DatabaseConfig) (driven.Warehouse, error) {
	ctor, ok := r.constructors[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, cfg.Type)
	}
	return ctor(ctx, cfg)
}
