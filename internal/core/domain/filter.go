package domain

import (
	"fmt"

	"github.com/gobwas/glob"
)

// TableFilter decides which tables of a database are synced. Patterns
// are glob expressions over "schema.table" (e.g. "analytics.*",
// "*.tmp_*"). Include patterns form an allow-list: when any are
// configured, only matching tables proceed. Exclude patterns are a
// deny-list applied after.
type TableFilter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewTableFilter compiles include and exclude patterns.
func NewTableFilter(include, exclude []string) (*TableFilter, error) {
	f := &TableFilter{}
	for _, p := range include {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: include pattern %q: %v", ErrInvalidInput, p, err)
		}
		f.include = append(f.include, g)
	}
	for _, p := range exclude {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: exclude pattern %q: %v", ErrInvalidInput, p, err)
		}
		f.exclude = append(f.exclude, g)
	}
	return f, nil
}

// Match reports whether schema.table passes the filter.
func (f *TableFilter) Match(schema, table string) bool {
	name := schema + "." + table

	if len(f.include) > 0 {
		matched := false
		for _, g := range f.include {
			if g.Match(name) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, g := range f.exclude {
		if g.Match(name) {
			return false
		}
	}
	return true
}
