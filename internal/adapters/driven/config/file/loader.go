package file

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
)

// DefaultPath is the project configuration file looked up when no
// explicit path is given.
const DefaultPath = "datascribe.toml"

// defaultOutputRoot is where the documentation tree is written when the
// config does not name one.
const defaultOutputRoot = "databases"

// Ensure Loader implements the interface.
var _ driven.ConfigLoader = (*Loader)(nil)

// Loader reads project configuration from a TOML file.
type Loader struct {
	path string
}

// NewLoader creates a loader for the given path. An empty path falls
// back to DefaultPath in the working directory.
func NewLoader(path string) *Loader {
	if path == "" {
		path = DefaultPath
	}
	return &Loader{path: path}
}

// Path returns the configuration file path.
func (l *Loader) Path() string {
	return l.path
}

// Load reads, decodes and validates the configuration file.
func (l *Loader) Load() (*domain.Config, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", l.path, err)
	}

	var cfg domain.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", l.path, err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", l.path, err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *domain.Config) {
	if cfg.OutputRoot == "" {
		cfg.OutputRoot = defaultOutputRoot
	}
}

var knownTypes = map[string]struct{}{
	domain.TypeDuckDB:     {},
	domain.TypeSQLite:     {},
	domain.TypeClickHouse: {},
	domain.TypeRedshift:   {},
	domain.TypeBigQuery:   {},
}

var knownAccessors = map[string]struct{}{
	domain.AccessorColumns:     {},
	domain.AccessorPreview:     {},
	domain.AccessorDescription: {},
	domain.AccessorProfiling:   {},
	domain.AccessorIndexes:     {},
}

func validate(cfg *domain.Config) error {
	if len(cfg.Databases) == 0 {
		return fmt.Errorf("%w: no databases configured", domain.ErrInvalidInput)
	}
	for i, db := range cfg.Databases {
		if err := validateDatabase(db); err != nil {
			return fmt.Errorf("databases[%d]: %w", i, err)
		}
	}
	return nil
}

func validateDatabase(db domain.DatabaseConfig) error {
	if _, ok := knownTypes[db.Type]; !ok {
		return fmt.Errorf("%w: unknown type %q", domain.ErrInvalidInput, db.Type)
	}

	switch db.Type {
	case domain.TypeDuckDB, domain.TypeSQLite:
		if db.Path == "" {
			return fmt.Errorf("%w: %s requires a path", domain.ErrInvalidInput, db.Type)
		}
	case domain.TypeClickHouse, domain.TypeRedshift:
		if db.Host == "" {
			return fmt.Errorf("%w: %s requires a host", domain.ErrInvalidInput, db.Type)
		}
	case domain.TypeBigQuery:
		if db.ProjectID == "" {
			return fmt.Errorf("%w: bigquery requires a project_id", domain.ErrInvalidInput)
		}
	}

	for _, name := range db.Accessors {
		if _, ok := knownAccessors[name]; !ok {
			return fmt.Errorf("%w: unknown accessor %q", domain.ErrInvalidInput, name)
		}
	}
	if db.PreviewRows < 0 {
		return fmt.Errorf("%w: preview_rows must not be negative", domain.ErrInvalidInput)
	}
	if db.QueriesPerSecond < 0 {
		return fmt.Errorf("%w: queries_per_second must not be negative", domain.ErrInvalidInput)
	}
	return nil
}
